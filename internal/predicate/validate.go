package predicate

// Validate checks a condition and returns whether it is well-formed
// along with a user-facing error message when it is not. The empty
// string is not valid input here; callers treat it as "no filter"
// without consulting the validator.
func Validate(condition string) (bool, string) {
	if _, err := Parse(condition); err != nil {
		return false, err.Error()
	}
	return true, ""
}
