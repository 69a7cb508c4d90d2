package query

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

type Executor func(ctx context.Context, params Params) (Result, error)

// Spec describes one catalog function.
type Spec struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredParams []string `json:"required_params"`
	OptionalParams []string `json:"optional_params,omitempty"`
	Ordering       string   `json:"ordering"`
}

// Catalog is the registry of query functions. It is filled at startup and
// read concurrently afterwards.
type Catalog struct {
	executors map[string]Executor
	specs     map[string]Spec
	order     []string
	mtx       sync.RWMutex
}

func (c *Catalog) Register(spec Spec, exec Executor) error {
	if exec == nil {
		return fmt.Errorf("executor is nil")
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	key := strings.ToLower(strings.TrimSpace(spec.Name))
	if len(key) == 0 {
		return fmt.Errorf("function name is required")
	}

	if _, ok := c.executors[key]; ok {
		return fmt.Errorf("function %s already registered", key)
	}

	c.executors[key] = exec
	c.specs[key] = spec
	c.order = append(c.order, key)

	return nil
}

func (c *Catalog) Specs() []Spec {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	specs := make([]Spec, 0, len(c.specs))
	for _, key := range c.order {
		specs = append(specs, c.specs[key])
	}

	return specs
}

func (c *Catalog) Get(name string) (Executor, Spec, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	exec, ok := c.executors[key]

	return exec, c.specs[key], ok
}

// Execute validates params against the registered Spec before running the function.
func (c *Catalog) Execute(ctx context.Context, name string, params Params) (Result, error) {
	exec, spec, ok := c.Get(name)
	if !ok {
		return Result{}, goerr.Wrap(ErrUnknownFunction, "lookup failed", goerr.V("function", name))
	}

	if params == nil {
		params = Params{}
	}

	for _, key := range spec.RequiredParams {
		if !params.Has(key) {
			return Result{}, goerr.Wrap(ErrParamMissing, "validation failed", goerr.V("function", spec.Name), goerr.V("param", key))
		}
	}

	res, err := exec(ctx, params)
	if err != nil {
		return Result{}, err
	}

	res.Function = spec.Name

	return res, nil
}

func NewCatalog() *Catalog {
	return &Catalog{
		executors: map[string]Executor{},
		specs:     map[string]Spec{},
		order:     []string{},
	}
}
