package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusIsValid(t *testing.T) {
	for _, status := range RequestStatuses {
		assert.True(t, status.IsValid(), string(status))
	}

	assert.False(t, RequestStatus("Pending").IsValid())
	assert.False(t, RequestStatus("approved").IsValid())
	assert.False(t, RequestStatus("").IsValid())
}

func TestRequestTypeIsValid(t *testing.T) {
	for _, requestType := range RequestTypes {
		assert.True(t, requestType.IsValid(), string(requestType))
	}

	assert.False(t, RequestType("Sabbatical").IsValid())
	assert.False(t, RequestType("").IsValid())
}

func TestRoleTypeIsValid(t *testing.T) {
	assert.True(t, RoleTeacher.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, RoleType("STUDENT").IsValid())
}
