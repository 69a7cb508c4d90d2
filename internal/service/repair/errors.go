package repair

import "errors"

var (
	errStillViolating = errors.New("content still violates language policy")
	errEmbedding      = errors.New("embedding unavailable")
)

func isSkip(err error) bool {
	return errors.Is(err, errStillViolating) || errors.Is(err, errEmbedding)
}
