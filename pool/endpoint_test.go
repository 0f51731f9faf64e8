package pool

import "testing"

func TestEndpointString(t *testing.T) {
	ep := NewEndpoint("127.0.0.1", 6379)
	if got, want := ep.String(), "127.0.0.1:6379"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestEndpointValidate(t *testing.T) {
	cases := []struct {
		ep      Endpoint
		wantErr bool
	}{
		{NewEndpoint("127.0.0.1", 6379), false},
		{NewEndpoint("", 6379), true},
		{NewEndpoint("127.0.0.1", 0), true},
		{NewEndpoint("127.0.0.1", 70000), true},
	}
	for _, c := range cases {
		err := c.ep.validate()
		if (err != nil) != c.wantErr {
			t.Errorf("validate(%v) error = %v, wantErr %v", c.ep, err, c.wantErr)
		}
	}
}
