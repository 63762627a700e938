package testutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"placement/pkg/requestcontext"
)

func TestAssertionsShareTheRecordedBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := requestcontext.Actor(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"conflict","error_description":"` + actor.ID + ` is ` + string(actor.Role) + `"}`))
	})

	rr := DoRequest(handler, AsRecruiter(NewRequest(t, http.MethodPost, "/drives"), "rec-1"))

	AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	AssertJSONContains(t, rr, "error", "conflict")
	AssertJSONContains(t, rr, "error_description", "rec-1 is recruiter")
	assert.Equal(t, "rec-1 is recruiter", UnmarshalErrorResponse(t, rr)["error_description"])
}
