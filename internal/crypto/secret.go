package crypto

const redacted = "[REDACTED]"

// Secret holds key material that must never reach logs or API responses.
// Every textual rendering of a non-empty Secret is redacted.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string {
	return s.String()
}

// MarshalText keeps the raw value out of JSON/YAML encoders and zap.Any.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Bytes returns the raw key material.
func (s Secret) Bytes() []byte {
	return []byte(s)
}

func (s Secret) IsZero() bool {
	return s == ""
}
