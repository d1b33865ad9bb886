package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeFixture struct {
	Value string `validate:"required,time_format"`
}

func TestTimeFormatValidation(t *testing.T) {
	v := GetValidator()

	valid := []string{"00:00", "9:05", "09:05", "12:30", "23:59"}
	for _, value := range valid {
		assert.NoError(t, v.Validate.Struct(&timeFixture{Value: value}), value)
	}

	invalid := []string{"25:00", "24:00", "12:60", "12", "12:5", "noon", "12:05:30"}
	for _, value := range invalid {
		assert.Error(t, v.Validate.Struct(&timeFixture{Value: value}), value)
	}
}

type usernameFixture struct {
	Value string `validate:"required,username_validation"`
}

func TestUsernameValidation(t *testing.T) {
	v := GetValidator()

	assert.NoError(t, v.Validate.Struct(&usernameFixture{Value: "test.user-42_x"}))
	assert.Error(t, v.Validate.Struct(&usernameFixture{Value: "test user"}))
	assert.Error(t, v.Validate.Struct(&usernameFixture{Value: "test@user"}))
}

type severityFixture struct {
	Value string `validate:"required,severity_validation"`
}

func TestSeverityValidation(t *testing.T) {
	v := GetValidator()

	valid := []string{"minimal", "mild", "moderate", "moderately severe", "severe", "Moderate"}
	for _, value := range valid {
		assert.NoError(t, v.Validate.Struct(&severityFixture{Value: value}), value)
	}

	assert.Error(t, v.Validate.Struct(&severityFixture{Value: "critical"}))
}

func TestSanitizeData(t *testing.T) {
	v := GetValidator()

	note := "<script>alert(1)</script>hello"
	payload := &struct {
		Message string
		Note    *string
		Nested  struct {
			Text string
		}
		Items []struct {
			Name string
		}
	}{
		Message: "<b>bold</b> text",
		Note:    &note,
	}
	payload.Nested.Text = "<img src=x onerror=alert(1)>safe"
	payload.Items = []struct{ Name string }{{Name: "<i>deep</i>"}}

	require.NoError(t, v.SanitizeData(payload))

	assert.Equal(t, "bold text", payload.Message)
	assert.Equal(t, "hello", *payload.Note)
	assert.Equal(t, "safe", payload.Nested.Text)
	assert.Equal(t, "deep", payload.Items[0].Name)
}

func TestSanitizeDataRequiresPointer(t *testing.T) {
	v := GetValidator()

	assert.Error(t, v.SanitizeData(struct{}{}))
	assert.Error(t, v.SanitizeData(nil))
}
