package meta

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/internal/serving"
)

func getRoot(session *detector.MockSession) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	handler := SetMockMetaHandler(detector.NewAdapter(session, 640, 0), "visage-test")
	router := gin.New()
	router.GET("/", handler.GetRoot)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	return recorder
}

func TestGetRoot(t *testing.T) {
	t.Run("reports identity and engine libraries", func(t *testing.T) {
		session := new(detector.MockSession)
		session.On("Describe", mock.Anything).Return(detector.Description{
			Name:            "inference-stub",
			Version:         "0.0.1",
			ComputingDevice: "cpu",
			Libraries:       map[string]string{"onnxruntime": "1.17.0", "insightface": "0.7.3"},
		}, nil)

		recorder := getRoot(session)
		require.Equal(t, http.StatusOK, recorder.Code)

		var response RootResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "visage-test", response.Service.Name)
		assert.Equal(t, serving.Version, response.Service.Version)
		assert.Equal(t, "cpu", response.Service.ComputingDevice)
		assert.Equal(t, "1.17.0", response.Service.Libraries["onnxruntime"])
		assert.Greater(t, response.TimeInMilliseconds, int64(0))
	})

	t.Run("still 200 when the engine is unreachable", func(t *testing.T) {
		session := new(detector.MockSession)
		session.On("Describe", mock.Anything).Return(detector.Description{}, errors.New("connection refused"))

		recorder := getRoot(session)
		require.Equal(t, http.StatusOK, recorder.Code)

		var response RootResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "visage-test", response.Service.Name)
		assert.NotNil(t, response.Service.Libraries)
		assert.Empty(t, response.Service.Libraries)
	})
}
