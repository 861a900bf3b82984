package server

import (
	"net/http"
	"strings"
	"testing"

	"vidtube/internal/models"
	"vidtube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTweet(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "alice")
	token := tokenFor(t, user.ID)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "Success",
			body:           map[string]string{"content": "  hello world  "},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Tweet created successfully",
		},
		{
			name:           "Missing content",
			body:           map[string]string{"content": "   "},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Tweet content is required",
		},
		{
			name:           "Too long",
			body:           map[string]string{"content": strings.Repeat("a", 5001)},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Tweet content must be at most 5000 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/tweets", tt.body), token)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedMsg, body.Message)
		})
	}

	assert.EqualValues(t, 1, testutil.CountRows(t, env.db, &models.Tweet{}))
}

func TestCreateTweet_ReturnsOwner(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "alice")

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/tweets", map[string]string{"content": "hi"}), tokenFor(t, user.ID))
	require.Equal(t, http.StatusCreated, status)

	tweet := decodeData[models.Tweet](t, body)
	assert.Equal(t, "hi", tweet.Content)
	require.NotNil(t, tweet.Owner)
	assert.Equal(t, user.ID, tweet.Owner.ID)
}

func TestGetUserTweets(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "alice")
	other := testutil.CreateUser(t, env.db, "bob")
	testutil.CreateTweet(t, env.db, user.ID, "one")
	testutil.CreateTweet(t, env.db, user.ID, "two")
	testutil.CreateTweet(t, env.db, other.ID, "elsewhere")

	status, body := env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/tweets/user/"+user.ID.String(), nil), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User tweets fetched successfully", body.Message)

	page := decodeData[models.Page[models.Tweet]](t, body)
	assert.EqualValues(t, 2, page.TotalDocs)
	assert.Len(t, page.Docs, 2)

	status, body = env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/tweets/user/6f1c8a1e-9a57-4c1f-8f51-2b8f3f0f6a11", nil), "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", body.Message)

	status, body = env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/tweets/user/abc", nil), "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid user ID", body.Message)
}

func TestUpdateAndDeleteTweet_Ownership(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "author")
	intruder := testutil.CreateUser(t, env.db, "intruder")
	tweet := testutil.CreateTweet(t, env.db, author.ID, "original")
	path := "/api/v1/tweets/" + tweet.ID.String()

	status, body := env.do(t, jsonRequest(t, http.MethodPatch, path, map[string]string{"content": "hijacked"}), tokenFor(t, intruder.ID))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You don't have permission to update this tweet", body.Message)

	status, body = env.do(t, jsonRequest(t, http.MethodDelete, path, nil), tokenFor(t, intruder.ID))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You don't have permission to delete this tweet", body.Message)

	status, body = env.do(t, jsonRequest(t, http.MethodPatch, path, map[string]string{"content": "edited"}), tokenFor(t, author.ID))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Tweet updated successfully", body.Message)
	assert.Equal(t, "edited", decodeData[models.Tweet](t, body).Content)

	status, body = env.do(t, jsonRequest(t, http.MethodDelete, path, nil), tokenFor(t, author.ID))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Tweet deleted successfully", body.Message)
	assert.JSONEq(t, `{}`, string(body.Data))
	assert.EqualValues(t, 0, testutil.CountRows(t, env.db, &models.Tweet{}))
}
