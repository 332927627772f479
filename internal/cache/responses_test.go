package cache

import "testing"

func TestResponseCacheRoundTrip(t *testing.T) {
	c, err := Open(":memory:", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = c.Close() }()

	key := Key("gemini-2.0-flash", []byte("spent 150 on fruits"))

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(key, "free_text", "gemini-2.0-flash", `{"items": []}`); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != `{"items": []}` {
		t.Errorf("got %q ok=%v", got, ok)
	}

	// Overwrite replaces the stored response.
	if err := c.Put(key, "free_text", "gemini-2.0-flash", "updated"); err != nil {
		t.Fatalf("put again: %v", err)
	}
	got, ok, _ = c.Get(key)
	if !ok || got != "updated" {
		t.Errorf("after overwrite got %q ok=%v", got, ok)
	}
}

func TestKeyDistinguishesModelAndInput(t *testing.T) {
	a := Key("model-a", []byte("input"))
	b := Key("model-b", []byte("input"))
	c := Key("model-a", []byte("other"))
	if a == b || a == c {
		t.Errorf("keys collide: %q %q %q", a, b, c)
	}
}
