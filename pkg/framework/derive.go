package framework

// The operations below are derived purely from Next; none of them
// special-cases the underlying search.

// CountExtensions drains a fresh enumeration and counts the results.
func CountExtensions[E Extension](f Framework[E]) (int, error) {
	guard, err := f.EnumerateExtensions()
	if err != nil {
		return 0, err
	}
	defer func() { _ = guard.Close() }()
	count := 0
	for {
		_, ok, err := guard.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return count, guard.Close()
		}
		count++
	}
}

// SampleExtension returns the first extension found, if any.
func SampleExtension[E Extension](f Framework[E]) (E, bool, error) {
	var zero E
	guard, err := f.EnumerateExtensions()
	if err != nil {
		return zero, false, err
	}
	defer func() { _ = guard.Close() }()
	ext, ok, err := guard.Next()
	if err != nil {
		return zero, false, err
	}
	if !ok {
		return zero, false, guard.Close()
	}
	return ext, true, guard.Close()
}

// IsCredulouslyAccepted reports whether some extension contains the
// argument. Short-circuits on the first hit.
func IsCredulouslyAccepted[E Extension](f Framework[E], id string) (bool, error) {
	guard, err := f.EnumerateExtensions()
	if err != nil {
		return false, err
	}
	defer func() { _ = guard.Close() }()
	for {
		ext, ok, err := guard.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, guard.Close()
		}
		if ext.Contains(id) {
			return true, guard.Close()
		}
	}
}

// IsSkepticallyAccepted reports whether every extension contains the
// argument. Short-circuits on the first miss.
func IsSkepticallyAccepted[E Extension](f Framework[E], id string) (bool, error) {
	guard, err := f.EnumerateExtensions()
	if err != nil {
		return false, err
	}
	defer func() { _ = guard.Close() }()
	for {
		ext, ok, err := guard.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return true, guard.Close()
		}
		if !ext.Contains(id) {
			return false, guard.Close()
		}
	}
}
