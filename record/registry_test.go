package record

import (
	"errors"
	"testing"

	"whoisrecord/types"
)

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("whois.example.test", stubFactory("example", stubSpec{}, nil)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("whois.example.test", stubFactory("example", stubSpec{}, nil)); !errors.Is(err, ErrDuplicateHost) {
		t.Errorf("err = %v, want ErrDuplicateHost", err)
	}

	b := reg.Build(types.Part{Host: "whois.example.test"})
	if b.Kind() != "example" {
		t.Errorf("kind = %s", b.Kind())
	}

	// 服务器标识原样匹配
	b = reg.Build(types.Part{Host: "WHOIS.EXAMPLE.TEST"})
	if b.Kind() != KindBlank {
		t.Errorf("kind = %s, want blank", b.Kind())
	}

	hosts := reg.Hosts()
	if len(hosts) != 1 || hosts[0] != "whois.example.test" {
		t.Errorf("hosts = %v", hosts)
	}
}

func TestBlankBackend(t *testing.T) {
	b := NewBlank(types.Part{Body: "anything", Host: "whois.unknown.test"})
	for _, name := range DefaultCatalog().Properties() {
		if b.Supports(name) {
			t.Errorf("blank supports %s", name)
		}
		if s := b.Get(name).State(); s != StateUndefined {
			t.Errorf("blank %s state = %v, want undefined", name, s)
		}
	}
	if b.ResponseThrottled() || b.ResponseIncomplete() || b.ResponseUnavailable() {
		t.Error("blank probes must be false")
	}
	contacts, err := b.Contacts()
	if err != nil || len(contacts) != 0 {
		t.Errorf("contacts = %v, %v", contacts, err)
	}
}

func TestBaseUnchangedKinds(t *testing.T) {
	a := NewBase("a", types.Part{Body: "x"})
	other := NewBlank(types.Part{Body: "x"})
	if _, err := a.Unchanged(other); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("err = %v, want ErrTypeMismatch", err)
	}

	a.Normalize(func(s string) string { return "same" })
	b := NewBase("a", types.Part{Body: "y"})
	b.Normalize(func(s string) string { return "same" })
	if same, err := a.Unchanged(b); err != nil || !same {
		t.Errorf("normalized compare = %v, %v", same, err)
	}
}

func TestBaseCachesSupportedResults(t *testing.T) {
	calls := 0
	b := NewBase("a", types.Part{})
	b.Supported(PropDomain, func() (any, error) {
		calls++
		return "example.test", nil
	})
	b.Get(PropDomain)
	b.Get(PropDomain)
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if r := b.Get(PropStatus); r.State() != StateUndefined || r.Value() != nil {
		t.Errorf("undeclared = %+v", r)
	}
	b.NotSupported(PropStatus)
	if r := b.Get(PropStatus); r.State() != StateUnsupported {
		t.Errorf("state = %v, want unsupported", r.State())
	}
}
