package pipeline

import (
	"encoding/json"
	"testing"

	"go.uber.org/goleak"

	"github.com/theirongolddev/compras/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// rec builds a record from alternating key/value pairs. Numeric strings
// prefixed with "#" become json.Number, as the HTTP client decodes them.
func rec(kv ...string) model.Record {
	r := make(model.Record, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		v := kv[i+1]
		if len(v) > 0 && v[0] == '#' {
			r[kv[i]] = json.Number(v[1:])
			continue
		}
		r[kv[i]] = v
	}
	return r
}
