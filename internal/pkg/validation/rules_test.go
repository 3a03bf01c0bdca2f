package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCourseCode(t *testing.T) {
	assert.True(t, ValidCourseCode("MAT101"))
	assert.True(t, ValidCourseCode("COMP1001"))
	assert.False(t, ValidCourseCode("mat101"))
	assert.False(t, ValidCourseCode("101MAT"))
	assert.False(t, ValidCourseCode("M1"))
	assert.False(t, ValidCourseCode(""))
}

func TestValidStudentCode(t *testing.T) {
	assert.True(t, ValidStudentCode("20260001"))
	assert.False(t, ValidStudentCode("2026001"))
	assert.False(t, ValidStudentCode("202600011"))
	assert.False(t, ValidStudentCode("2026000A"))
}
