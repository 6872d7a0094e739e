package engine

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/viant/wordvec/embedding"
	"github.com/viant/wordvec/index"
	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterVectorFunctions registers vec_cosine and vec_l2 with the driver.
// Only connections opened after the first call see the functions; repeated
// calls return the first result.
func RegisterVectorFunctions() error {
	registerOnce.Do(func() {
		if err := sqlite.RegisterDeterministicScalarFunction("vec_cosine", 2, vecCosine); err != nil {
			registerErr = fmt.Errorf("engine: register vec_cosine: %w", err)
			return
		}
		if err := sqlite.RegisterDeterministicScalarFunction("vec_l2", 2, vecL2); err != nil {
			registerErr = fmt.Errorf("engine: register vec_l2: %w", err)
		}
	})
	return registerErr
}

// vectorArgs decodes both BLOB arguments; ok is false when either is NULL.
func vectorArgs(name string, args []driver.Value) (a, b []float32, ok bool, err error) {
	if len(args) != 2 {
		return nil, nil, false, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	vecs := make([][]float32, 2)
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
			return nil, nil, false, nil
		case []byte:
			if vecs[i], err = embedding.DecodeVector(v); err != nil {
				return nil, nil, false, fmt.Errorf("%s: %w", name, err)
			}
		default:
			return nil, nil, false, fmt.Errorf("%s: unsupported argument type %T; want BLOB", name, arg)
		}
	}
	return vecs[0], vecs[1], true, nil
}

func vecCosine(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, ok, err := vectorArgs("vec_cosine", args)
	if err != nil || !ok {
		return nil, err
	}
	return index.CosineSimilarity(a, b)
}

func vecL2(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, ok, err := vectorArgs("vec_l2", args)
	if err != nil || !ok {
		return nil, err
	}
	return index.L2Distance(a, b)
}
