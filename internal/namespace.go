package internal

// NamespaceInput is everything namespace resolution depends on.
type NamespaceInput struct {
	// Default is the entry point's controller namespace.
	Default string

	// APIRoot and APIControllers frame an API namespace:
	// <APIRoot><entity>\<version><APIControllers>.
	APIRoot        string
	APIControllers string

	IsAPI   bool
	Entity  string
	Version string
}

// IsRequestToAPI reports whether the matched route addresses an API.
func IsRequestToAPI(route map[string]string) bool {
	_, hasAPI := route[APIKey]
	_, hasVersion := route[APIVersionKey]
	return hasAPI && hasVersion
}

// ResolveNamespace picks the controller namespace.
// A non-empty override is returned verbatim. A missing API version
// leaves an empty segment in the composed namespace.
func ResolveNamespace(override string, in NamespaceInput) string {
	if override != "" {
		return override
	}
	if in.IsAPI {
		return in.APIRoot + in.Entity + `\` + in.Version + in.APIControllers
	}
	return in.Default
}
