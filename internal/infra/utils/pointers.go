package utils

// Float64Ptr returns a pointer to the given value
func Float64Ptr(f float64) *float64 {
	return &f
}
