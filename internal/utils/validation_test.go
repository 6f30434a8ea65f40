package utils

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		errMsg string
	}{
		{name: "simple id", id: "timeline_1"},
		{name: "client id", id: "form:schedule"},
		{name: "hyphens and dots", id: "team-a.v2"},
		{name: "empty", id: "", errMsg: "id cannot be empty"},
		{name: "too long", id: strings.Repeat("a", 101), errMsg: "id too long (max 100 characters)"},
		{name: "markup", id: "tl<script>", errMsg: "id contains invalid characters"},
		{name: "sql injection", id: "tl'; DROP TABLE timelines; --", errMsg: "id contains invalid characters"},
		{name: "path traversal", id: "../../etc/passwd", errMsg: "id contains invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestValidateCoordinate(t *testing.T) {
	assert.Empty(t, ValidateCoordinate("center", 41.38, 2.17, nil))
	assert.Empty(t, ValidateCoordinate("center", -90, 180, nil))

	errs := ValidateCoordinate("markers[0]", 91, -181, nil)
	assert.Equal(t, []string{
		"latitude must be between -90 and 90",
		"longitude must be between -180 and 180",
	}, errs["markers[0]"])
}

func TestParseIntParam(t *testing.T) {
	params := url.Values{"first": {"20"}, "rows": {"ten"}}

	first, errs := ParseIntParam(params, "first", 0, nil)
	assert.Equal(t, 20, first)
	assert.Empty(t, errs)

	rows, errs := ParseIntParam(params, "rows", 10, errs)
	assert.Equal(t, 10, rows)
	assert.Equal(t, []string{`Invalid field value for field "rows".`}, errs["rows"])

	missing, _ := ParseIntParam(params, "page", 3, errs)
	assert.Equal(t, 3, missing)
}
