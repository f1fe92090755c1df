package dto

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindReviewCreate(t *testing.T, form url.Values) (*ReviewCreateRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/reviews", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req

	var body ReviewCreateRequest
	if err := c.ShouldBind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func validReviewForm() url.Values {
	return url.Values{
		"media_type": {"movie"},
		"media_id":   {"603"},
		"rating":     {"4.5"},
		"content":    {"经典重温"},
		"watched_on": {"2025-06-01"},
	}
}

func TestReviewCreateRequestBinds(t *testing.T) {
	body, err := bindReviewCreate(t, validReviewForm())
	require.NoError(t, err)
	assert.Equal(t, "movie", body.MediaType)
	assert.Equal(t, int64(603), body.MediaID)
	assert.Equal(t, 4.5, body.Rating)
}

func TestReviewCreateRequestRejectsRatingAboveMax(t *testing.T) {
	form := validReviewForm()
	form.Set("rating", "6")

	_, err := bindReviewCreate(t, form)
	require.Error(t, err)

	// 必须在绑定阶段被拒，handler 不会走到任何写入
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "Rating", verrs[0].Field())
	assert.Equal(t, "max", verrs[0].Tag())
}

func TestReviewCreateRequestRejectsNegativeRating(t *testing.T) {
	form := validReviewForm()
	form.Set("rating", "-0.5")

	_, err := bindReviewCreate(t, form)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "min", verrs[0].Tag())
}

func TestReviewCreateRequestRejectsBadWatchedOn(t *testing.T) {
	form := validReviewForm()
	form.Set("watched_on", "06/01/2025")

	_, err := bindReviewCreate(t, form)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "datetime", verrs[0].Tag())
}
