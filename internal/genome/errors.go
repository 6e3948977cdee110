package genome

// RegistryError is returned for malformed genome models or registry files.
type RegistryError struct {
	Alias  string
	Path   string
	Reason string
	Err    error
}

func (e *RegistryError) Error() string {
	msg := "genome registry"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Alias != "" {
		msg += " [" + e.Alias + "]"
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

// IsRegistryError marks the error as a registry error.
func (e *RegistryError) IsRegistryError() {}
