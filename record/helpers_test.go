package record

import (
	"errors"
	"sync/atomic"
	"time"

	"whoisrecord/types"
)

// stubBackend 测试用后端，按构造参数声明属性
type stubBackend struct {
	*Base
}

type stubSpec struct {
	supported    map[string]any
	unsupported  []string
	failing      map[string]error
	throttled    bool
	incomplete   bool
	unavailable  bool
	contacts     []types.Contact
	extraMethods map[string]any
}

func stubFactory(kind string, spec stubSpec, builds *int32) Factory {
	return func(part types.Part) Backend {
		if builds != nil {
			atomic.AddInt32(builds, 1)
		}
		b := &stubBackend{Base: NewBase(kind, part)}
		for name, v := range spec.supported {
			v := v
			b.Supported(name, func() (any, error) { return v, nil })
		}
		for name, err := range spec.failing {
			err := err
			b.Supported(name, func() (any, error) { return nil, err })
		}
		b.NotSupported(spec.unsupported...)
		if spec.throttled {
			b.Method(MethodResponseThrottled, func() (any, error) { return true, nil })
		}
		if spec.incomplete {
			b.Method(MethodResponseIncomplete, func() (any, error) { return true, nil })
		}
		if spec.unavailable {
			b.Method(MethodResponseUnavailable, func() (any, error) { return true, nil })
		}
		if spec.contacts != nil {
			contacts := spec.contacts
			b.Method(MethodContacts, func() (any, error) { return contacts, nil })
		}
		for name, v := range spec.extraMethods {
			v := v
			b.Method(name, func() (any, error) { return v, nil })
		}
		return b
	}
}

func newTestRecord(reg *Registry, hosts ...string) *Record {
	parts := make([]types.Part, len(hosts))
	for i, h := range hosts {
		parts[i] = types.Part{Body: "response from " + h, Host: h}
	}
	return New(nil, parts, WithRegistry(reg))
}

var (
	errBoom     = errors.New("boom")
	testCreated = time.Date(2009, 3, 1, 12, 0, 0, 0, time.UTC)
)
