package session

import "fmt"

// Query returns a URL query parameter of the client page
func Query(host Host, name string) (string, bool, error) {
	b, ok := host.(Browser)
	if !ok {
		return "", false, fmt.Errorf("query: %w", ErrUnsupported)
	}
	values, err := b.Query()
	if err != nil {
		return "", false, err
	}
	if !values.Has(name) {
		return "", false, nil
	}
	return values.Get(name), true, nil
}

// AllQuery returns every URL query parameter, first value per name
func AllQuery(host Host) (map[string]string, error) {
	b, ok := host.(Browser)
	if !ok {
		return nil, fmt.Errorf("query: %w", ErrUnsupported)
	}
	values, err := b.Query()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(values))
	for k := range values {
		out[k] = values.Get(k)
	}
	return out, nil
}

// GetLocalStorage reads a value from client storage
func GetLocalStorage(host Host, key string) (string, bool, error) {
	s, ok := host.(Storage)
	if !ok {
		return "", false, fmt.Errorf("local storage: %w", ErrUnsupported)
	}
	return s.GetItem(key)
}

// SetLocalStorage writes a value to client storage
func SetLocalStorage(host Host, key, value string) error {
	s, ok := host.(Storage)
	if !ok {
		return fmt.Errorf("local storage: %w", ErrUnsupported)
	}
	return s.SetItem(key, value)
}

// GetCookie reads a client cookie
func GetCookie(host Host, name string) (string, bool, error) {
	b, ok := host.(Browser)
	if !ok {
		return "", false, fmt.Errorf("cookie: %w", ErrUnsupported)
	}
	return b.Cookie(name)
}

// SetCookie sets a client cookie valid for days, or for the browser
// session when days is 0
func SetCookie(host Host, name, value string, days int) error {
	b, ok := host.(Browser)
	if !ok {
		return fmt.Errorf("cookie: %w", ErrUnsupported)
	}
	return b.SetCookie(name, value, days)
}
