package nlu

func provinceEntries() []Entry {
	p := func(name, station string, aliases ...string) Entry {
		return Entry{Name: name, Kind: KindProvince, Province: name, Station: station, Aliases: aliases}
	}

	return []Entry{
		p("Hà Nội", "Hanoi", "ha noi", "hanoi", "thu do"),
		p("Hồ Chí Minh", "Ho Chi Minh City", "ho chi minh", "hcm", "tp hcm", "tphcm", "sai gon", "saigon", "thanh pho ho chi minh"),
		p("Đà Nẵng", "Da Nang", "da nang", "danang"),
		p("Cần Thơ", "Can Tho", "can tho", "cantho"),
		p("Hải Phòng", "Haiphong", "hai phong", "haiphong"),
		p("An Giang", "Long Xuyen", "an giang"),
		p("Bà Rịa - Vũng Tàu", "Vung Tau", "ba ria vung tau", "brvt", "ba ria"),
		p("Bắc Giang", "Bac Giang", "bac giang"),
		p("Bắc Kạn", "Bac Kan", "bac kan"),
		p("Bạc Liêu", "Bac Lieu", "bac lieu"),
		p("Bắc Ninh", "Bac Ninh", "bac ninh"),
		p("Bến Tre", "Ben Tre", "ben tre"),
		p("Bình Định", "Quy Nhon", "binh dinh"),
		p("Bình Dương", "Thu Dau Mot", "binh duong"),
		p("Bình Phước", "Dong Xoai", "binh phuoc"),
		p("Bình Thuận", "Phan Thiet", "binh thuan"),
		p("Cà Mau", "Ca Mau", "ca mau"),
		p("Cao Bằng", "Cao Bang", "cao bang"),
		p("Đắk Lắk", "Buon Ma Thuot", "dak lak", "daklak", "dac lac"),
		p("Đắk Nông", "Gia Nghia", "dak nong"),
		p("Điện Biên", "Dien Bien Phu", "dien bien"),
		p("Đồng Nai", "Bien Hoa", "dong nai"),
		p("Đồng Tháp", "Cao Lanh", "dong thap"),
		p("Gia Lai", "Pleiku", "gia lai"),
		p("Hà Giang", "Ha Giang", "ha giang"),
		p("Hà Nam", "Phu Ly", "ha nam"),
		p("Hà Tĩnh", "Ha Tinh", "ha tinh"),
		p("Hải Dương", "Hai Duong", "hai duong"),
		p("Hậu Giang", "Vi Thanh", "hau giang"),
		p("Hòa Bình", "Hoa Binh", "hoa binh"),
		p("Hưng Yên", "Hung Yen", "hung yen"),
		p("Khánh Hòa", "Nha Trang", "khanh hoa"),
		p("Kiên Giang", "Rach Gia", "kien giang"),
		p("Kon Tum", "Kon Tum", "kon tum", "kontum"),
		p("Lai Châu", "Lai Chau", "lai chau"),
		p("Lâm Đồng", "Da Lat", "lam dong"),
		p("Lạng Sơn", "Lang Son", "lang son"),
		p("Lào Cai", "Lao Cai", "lao cai"),
		p("Long An", "Tan An", "long an"),
		p("Nam Định", "Nam Dinh", "nam dinh"),
		p("Nghệ An", "Vinh", "nghe an"),
		p("Ninh Bình", "Ninh Binh", "ninh binh"),
		p("Ninh Thuận", "Phan Rang", "ninh thuan"),
		p("Phú Thọ", "Viet Tri", "phu tho"),
		p("Phú Yên", "Tuy Hoa", "phu yen"),
		p("Quảng Bình", "Dong Hoi", "quang binh"),
		p("Quảng Nam", "Tam Ky", "quang nam"),
		p("Quảng Ngãi", "Quang Ngai", "quang ngai"),
		p("Quảng Ninh", "Ha Long", "quang ninh"),
		p("Quảng Trị", "Dong Ha", "quang tri"),
		p("Sóc Trăng", "Soc Trang", "soc trang"),
		p("Sơn La", "Son La", "son la"),
		p("Tây Ninh", "Tay Ninh", "tay ninh"),
		p("Thái Bình", "Thai Binh", "thai binh"),
		p("Thái Nguyên", "Thai Nguyen", "thai nguyen"),
		p("Thanh Hóa", "Thanh Hoa", "thanh hoa"),
		p("Thừa Thiên Huế", "Hue", "thua thien hue", "hue", "co do hue"),
		p("Tiền Giang", "My Tho", "tien giang"),
		p("Trà Vinh", "Tra Vinh", "tra vinh"),
		p("Tuyên Quang", "Tuyen Quang", "tuyen quang"),
		p("Vĩnh Long", "Vinh Long", "vinh long"),
		p("Vĩnh Phúc", "Vinh Yen", "vinh phuc"),
		p("Yên Bái", "Yen Bai", "yen bai"),

		// tourist cities resolve to their province but keep their own station
		p("Khánh Hòa", "Nha Trang", "nha trang"),
		p("Lâm Đồng", "Da Lat", "da lat", "dalat"),
		p("Quảng Nam", "Hoi An", "hoi an"),
		p("Kiên Giang", "Phu Quoc", "phu quoc"),
		p("Bình Định", "Quy Nhon", "quy nhon"),
		p("Quảng Ninh", "Ha Long", "ha long", "halong"),
		p("Bà Rịa - Vũng Tàu", "Vung Tau", "vung tau"),
		p("Bình Thuận", "Phan Thiet", "phan thiet", "mui ne"),
		p("Nghệ An", "Vinh", "cua lo"),
		p("Kiên Giang", "Ha Tien", "ha tien"),
	}
}

func placeEntries() []Entry {
	e := func(name, province, station string, aliases ...string) Entry {
		return Entry{Name: name, Kind: KindPlace, Province: province, Station: station, Aliases: aliases}
	}

	return []Entry{
		e("Eo Gió", "Bình Định", "Quy Nhon", "eo gio"),
		e("Kỳ Co", "Bình Định", "Quy Nhon", "ky co", "bai ky co"),
		e("Ghềnh Ráng", "Bình Định", "Quy Nhon", "ghenh rang", "ghenh rang tien sa"),
		e("Fansipan", "Lào Cai", "Sa Pa", "fansipan", "fanxipan", "fansipang", "phan xi pang", "phanxipang", "phan si pang", "dinh fansipan"),
		e("Sa Pa", "Lào Cai", "Sa Pa", "sa pa", "sapa"),
		e("Tháp Bà Ponagar", "Khánh Hòa", "Nha Trang", "thap ba ponagar", "ponagar", "thap ba"),
		e("Chùa Thiên Mụ", "Thừa Thiên Huế", "Hue", "chua thien mu", "thien mu"),
		e("Đại Nội Huế", "Thừa Thiên Huế", "Hue", "dai noi", "dai noi hue", "hoang thanh hue"),
		e("Cầu Rồng", "Đà Nẵng", "Da Nang", "cau rong"),
		e("Bà Nà Hills", "Đà Nẵng", "Da Nang", "ba na hills", "ba na", "bana hills", "bana"),
		e("Ngũ Hành Sơn", "Đà Nẵng", "Da Nang", "ngu hanh son"),
		e("Phố cổ Hội An", "Quảng Nam", "Hoi An", "pho co hoi an"),
		e("Cù Lao Chàm", "Quảng Nam", "Hoi An", "cu lao cham"),
		e("Vịnh Hạ Long", "Quảng Ninh", "Ha Long", "vinh ha long"),
		e("Tràng An", "Ninh Bình", "Ninh Binh", "trang an"),
		e("Tam Cốc - Bích Động", "Ninh Bình", "Ninh Binh", "tam coc bich dong", "tam coc", "bich dong"),
		e("Động Phong Nha", "Quảng Bình", "Dong Hoi", "phong nha ke bang", "dong phong nha", "phong nha"),
		e("Hồ Xuân Hương", "Lâm Đồng", "Da Lat", "ho xuan huong"),
		e("Thung lũng Tình Yêu", "Lâm Đồng", "Da Lat", "thung lung tinh yeu"),
		e("Nhà thờ Đức Bà", "Hồ Chí Minh", "Ho Chi Minh City", "nha tho duc ba"),
		e("Chợ Bến Thành", "Hồ Chí Minh", "Ho Chi Minh City", "cho ben thanh", "ben thanh"),
		e("Dinh Độc Lập", "Hồ Chí Minh", "Ho Chi Minh City", "dinh doc lap"),
		e("Hồ Gươm", "Hà Nội", "Hanoi", "ho guom", "ho hoan kiem"),
		e("Văn Miếu", "Hà Nội", "Hanoi", "van mieu quoc tu giam", "van mieu"),
		e("Đèo Mã Pí Lèng", "Hà Giang", "Ha Giang", "deo ma pi leng", "ma pi leng"),
		e("Chợ nổi Cái Răng", "Cần Thơ", "Can Tho", "cho noi cai rang", "cai rang"),
	}
}

func dishEntries() []Entry {
	d := func(name, province string, aliases ...string) Entry {
		return Entry{Name: name, Kind: KindDish, Province: province, Aliases: aliases}
	}

	return []Entry{
		d("Mì Quảng", "Quảng Nam", "mi quang"),
		d("Cao lầu", "Quảng Nam", "cao lau"),
		d("Cơm gà Tam Kỳ", "Quảng Nam", "com ga tam ky"),
		d("Bún bò Huế", "Thừa Thiên Huế", "bun bo hue", "bun bo"),
		d("Bún sứa", "Khánh Hòa", "bun sua nha trang", "bun sua"),
		d("Nem nướng Ninh Hòa", "Khánh Hòa", "nem nuong ninh hoa", "nem nuong"),
		d("Thắng cố", "Lào Cai", "thang co"),
		d("Bánh xèo tôm nhảy", "Bình Định", "banh xeo tom nhay"),
		d("Bánh ít lá gai", "Bình Định", "banh it la gai"),
		d("Phở Hà Nội", "Hà Nội", "pho ha noi", "pho bo ha noi"),
		d("Bún chả", "Hà Nội", "bun cha"),
		d("Cơm tấm", "Hồ Chí Minh", "com tam"),
		d("Bánh tráng cuốn thịt heo", "Đà Nẵng", "banh trang cuon thit heo"),
		d("Bánh đa cua", "Hải Phòng", "banh da cua"),
		d("Lẩu mắm", "Cần Thơ", "lau mam"),
		d("Cá kho làng Vũ Đại", "Hà Nam", "ca kho lang vu dai", "ca kho vu dai"),
	}
}
