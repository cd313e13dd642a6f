package authz

// Allowed reports whether required is a member of the effective permission
// set. Deny-by-default: a nil or empty set denies everything. There are no
// wildcard or hierarchy semantics; each permission is matched by exact code,
// so high-privilege roles must be granted every underlying code explicitly.
func Allowed(effective []Code, required Code) bool {
	for _, code := range effective {
		if code == required {
			return true
		}
	}
	return false
}

// AllowedStrings is Allowed over a plain string slice, as stored on roles.
func AllowedStrings(effective []string, required Code) bool {
	for _, code := range effective {
		if Code(code) == required {
			return true
		}
	}
	return false
}
