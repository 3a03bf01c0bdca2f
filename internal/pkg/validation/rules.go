package validation

import (
	"regexp"
)

// Identifier patterns enforced beyond struct-tag validation.
var (
	// Course codes look like MAT101 or COMP1001: a letter prefix and a
	// numeric suffix, already uppercased by the caller.
	CourseCodePattern = `^[A-Z]{2,6}[0-9]{3,4}$`

	// Student codes are 8 digits.
	StudentCodePattern = `^\d{8}$`
)

// CompiledPatterns caches the compiled expressions.
var CompiledPatterns = struct {
	CourseCode  *regexp.Regexp
	StudentCode *regexp.Regexp
}{
	CourseCode:  regexp.MustCompile(CourseCodePattern),
	StudentCode: regexp.MustCompile(StudentCodePattern),
}

// ValidCourseCode reports whether code is a well-formed course code.
func ValidCourseCode(code string) bool {
	return CompiledPatterns.CourseCode.MatchString(code)
}

// ValidStudentCode reports whether code is a well-formed student code.
func ValidStudentCode(code string) bool {
	return CompiledPatterns.StudentCode.MatchString(code)
}
