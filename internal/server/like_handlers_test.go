package server

import (
	"net/http"
	"testing"

	"vidtube/internal/models"
	"vidtube/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestToggleVideoLike_Flow(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateUser(t, env.db, "owner")
	fan := testutil.CreateUser(t, env.db, "fan")
	video := testutil.CreateVideo(t, env.db, owner.ID, "clip")
	token := tokenFor(t, fan.ID)
	path := "/api/v1/likes/toggle/v/" + video.ID.String()

	status, body := env.do(t, jsonRequest(t, http.MethodPost, path, nil), token)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, "Video liked successfully", body.Message)
	assert.JSONEq(t, `{"liked":true}`, string(body.Data))
	assert.EqualValues(t, 1, testutil.CountRows(t, env.db, &models.Like{}))

	status, body = env.do(t, jsonRequest(t, http.MethodPost, path, nil), token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Video like removed", body.Message)
	assert.JSONEq(t, `{"liked":false}`, string(body.Data))
	assert.EqualValues(t, 0, testutil.CountRows(t, env.db, &models.Like{}))
}

func TestToggleLike_Errors(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "alice")
	token := tokenFor(t, user.ID)

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "No token",
			path:           "/api/v1/likes/toggle/t/6f1c8a1e-9a57-4c1f-8f51-2b8f3f0f6a11",
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "Unauthorized request",
		},
		{
			name:           "Malformed ID",
			path:           "/api/v1/likes/toggle/c/not-an-id",
			token:          token,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid comment ID",
		},
		{
			name:           "Missing tweet",
			path:           "/api/v1/likes/toggle/t/6f1c8a1e-9a57-4c1f-8f51-2b8f3f0f6a11",
			token:          token,
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Tweet not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, jsonRequest(t, http.MethodPost, tt.path, nil), tt.token)
			assert.Equal(t, tt.expectedStatus, status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.expectedStatus, body.StatusCode)
			assert.Equal(t, tt.expectedMsg, body.Message)
			assert.NotNil(t, body.Errors)
		})
	}
}

func TestToggleCommentAndTweetLike(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "author")
	fan := testutil.CreateUser(t, env.db, "fan")
	video := testutil.CreateVideo(t, env.db, author.ID, "clip")
	comment := testutil.CreateComment(t, env.db, author.ID, video.ID, "first")
	tweet := testutil.CreateTweet(t, env.db, author.ID, "hello")
	token := tokenFor(t, fan.ID)

	status, body := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/likes/toggle/c/"+comment.ID.String(), nil), token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Comment liked successfully", body.Message)

	status, body = env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/likes/toggle/t/"+tweet.ID.String(), nil), token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Tweet liked successfully", body.Message)

	assert.EqualValues(t, 1, testutil.CountRows(t, env.db, &models.Like{}, "subject_type = ?", models.SubjectComment))
	assert.EqualValues(t, 1, testutil.CountRows(t, env.db, &models.Like{}, "subject_type = ?", models.SubjectTweet))
}

func TestGetLikedVideos(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateUser(t, env.db, "owner")
	fan := testutil.CreateUser(t, env.db, "fan")
	liked := testutil.CreateVideo(t, env.db, owner.ID, "liked")
	testutil.CreateVideo(t, env.db, owner.ID, "ignored")
	token := tokenFor(t, fan.ID)

	status, _ := env.do(t, jsonRequest(t, http.MethodPost, "/api/v1/likes/toggle/v/"+liked.ID.String(), nil), token)
	assert.Equal(t, http.StatusOK, status)

	status, body := env.do(t, jsonRequest(t, http.MethodGet, "/api/v1/likes/videos", nil), token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Liked videos fetched successfully", body.Message)

	page := decodeData[models.Page[models.Video]](t, body)
	assert.EqualValues(t, 1, page.TotalDocs)
	if assert.Len(t, page.Docs, 1) {
		assert.Equal(t, liked.ID, page.Docs[0].ID)
		if assert.NotNil(t, page.Docs[0].Owner) {
			assert.Equal(t, "owner", page.Docs[0].Owner.Username)
		}
	}
}
