package engine

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterVectorFunctions registers vec_cosine and vec_l2 with the driver.
// Only connections opened after the first call see the functions; repeated
// calls return the result of the first registration.
func RegisterVectorFunctions() error {
	registerOnce.Do(func() {
		if err := sqlite.RegisterDeterministicScalarFunction("vec_cosine", 2, binaryFunction("vec_cosine", cosine)); err != nil {
			registerErr = fmt.Errorf("engine: register vec_cosine: %w", err)
			return
		}
		if err := sqlite.RegisterDeterministicScalarFunction("vec_l2", 2, binaryFunction("vec_l2", l2)); err != nil {
			registerErr = fmt.Errorf("engine: register vec_l2: %w", err)
		}
	})
	return registerErr
}

// binaryFunction adapts a metric over two embeddings to a scalar function.
// A NULL argument yields NULL.
func binaryFunction(name string, metric func(a, b []float32) (float64, error)) func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
		}
		a, err := asEmbedding(name, args[0])
		if err != nil {
			return nil, err
		}
		b, err := asEmbedding(name, args[1])
		if err != nil {
			return nil, err
		}
		if a == nil || b == nil {
			return nil, nil
		}
		return metric(a, b)
	}
}

func asEmbedding(name string, arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeEmbedding(name, v)
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T; want BLOB", name, arg)
	}
}

// decodeEmbedding mirrors vector.DecodeEmbedding; vector tests import this
// package, so it cannot be imported here.
func decodeEmbedding(name string, b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%s: invalid embedding blob length %d", name, len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vec_cosine: dimension mismatch %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vec_cosine: empty vectors")
	}
	var dot, na2, nb2 float64
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0, fmt.Errorf("vec_cosine: zero-magnitude vector")
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}

func l2(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vec_l2: dimension mismatch %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
