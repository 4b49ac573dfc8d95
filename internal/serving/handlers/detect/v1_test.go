package detect

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/visagelab/visage/internal/codec"
	"github.com/visagelab/visage/internal/detector"
	"github.com/visagelab/visage/pkg/inmemorycache"
)

// fakeCache is a map-backed stand-in for the freecache wrapper.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]byte{}} }

func (c *fakeCache) Get(key []byte) ([]byte, error) {
	value, ok := c.entries[string(key)]
	if !ok {
		return nil, errors.New("entry not found")
	}
	return value, nil
}

func (c *fakeCache) Set(key, value []byte) error { c.entries[string(key)] = value; return nil }

func (c *fakeCache) SetEx(key, value []byte, expiryInSec int) error { return c.Set(key, value) }

func (c *fakeCache) Delete(key []byte) bool {
	_, ok := c.entries[string(key)]
	delete(c.entries, string(key))
	return ok
}

func newTestRouter(t *testing.T, faces []detector.Face, cache inmemorycache.InMemoryCache,
	timingsEnabled bool) (*gin.Engine, *detector.MockSession) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	session := new(detector.MockSession)
	session.On("Describe", mock.Anything).Return(detector.Description{
		Name:      "inference-stub",
		Version:   "0.0.1",
		Libraries: map[string]string{"onnxruntime": "1.17.0"},
	}, nil).Maybe()
	if faces != nil {
		session.On("Detect", mock.Anything, mock.Anything).Return(faces, nil)
	}

	handler := SetMockDetectHandler(detector.NewAdapter(session, 640, 0), cache, 60, "visage-test", timingsEnabled)
	router := gin.New()
	router.POST("/detect", handler.PostDetect)
	return router, session
}

func multipartBody(t *testing.T, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func postFile(router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/detect", body)
	request.Header.Set("Content-Type", contentType)
	router.ServeHTTP(recorder, request)
	return recorder
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func sampleFace() detector.Face {
	return detector.Face{
		Score:       0.991234,
		BoundingBox: detector.BoundingBox{X1: 10, Y1: 20, X2: 110, Y2: 140},
		KeyPoints:   []detector.Point{{X: 30, Y: 40}, {X: 50, Y: 40}},
		Sex:         "F",
		Age:         29,
		Embedding:   []float32{0.6, 0.8},
	}
}

func TestPostDetect(t *testing.T) {
	t.Run("detects faces in an uploaded png", func(t *testing.T) {
		router, _ := newTestRouter(t, []detector.Face{sampleFace()}, nil, true)
		data := pngBytes(t, 700, 500)
		body, formType := multipartBody(t, "photo.png", "image/png", data)
		recorder := postFile(router, body, formType)
		require.Equal(t, http.StatusOK, recorder.Code)

		var response DetectResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

		digest := sha1.Sum(data)
		assert.Equal(t, "photo.png", response.Request.FileName)
		assert.Equal(t, int64(len(data)), response.Request.FileSize)
		assert.Equal(t, hex.EncodeToString(digest[:]), response.Request.FileSha1)
		assert.Equal(t, 700, response.Request.ImageWidth)
		assert.Equal(t, 500, response.Request.ImageHeight)

		require.Len(t, response.Response.Faces, 1)
		face := response.Response.Faces[0]
		assert.Equal(t, 0.9912, face.Score)
		assert.Equal(t, "F", face.Sex)
		assert.Equal(t, 29, face.Age)
		embedding, err := codec.Decode(face.Embedding)
		require.NoError(t, err)
		assert.Equal(t, []float32{0.6, 0.8}, embedding)

		require.NotNil(t, response.Response.HashTimeInNanoseconds)
		require.NotNil(t, response.Response.DecodeTimeInNanoseconds)
		require.NotNil(t, response.Response.DetectionTimeInNanoseconds)

		assert.Equal(t, "visage-test", response.Service.Name)
		assert.Equal(t, "0.2.0", response.Service.Version)
		assert.Equal(t, "1.17.0", response.Service.Libraries["onnxruntime"])
	})

	t.Run("timings are omitted when disabled", func(t *testing.T) {
		router, _ := newTestRouter(t, []detector.Face{}, nil, false)
		body, formType := multipartBody(t, "photo.png", "image/png", pngBytes(t, 64, 64))
		recorder := postFile(router, body, formType)
		require.Equal(t, http.StatusOK, recorder.Code)

		var response DetectResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Nil(t, response.Response.HashTimeInNanoseconds)
		assert.Nil(t, response.Response.DecodeTimeInNanoseconds)
		assert.Nil(t, response.Response.DetectionTimeInNanoseconds)
	})

	t.Run("unrecognized content type is a 415 before any detection", func(t *testing.T) {
		router, session := newTestRouter(t, nil, nil, true)
		body, formType := multipartBody(t, "notes.txt", "text/plain", []byte("hello"))
		recorder := postFile(router, body, formType)
		assert.Equal(t, http.StatusUnsupportedMediaType, recorder.Code)
		session.AssertNotCalled(t, "Detect", mock.Anything, mock.Anything)
	})

	t.Run("corrupt image is a 422", func(t *testing.T) {
		router, session := newTestRouter(t, nil, nil, true)
		body, formType := multipartBody(t, "broken.png", "image/png", []byte("not a png"))
		recorder := postFile(router, body, formType)
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		session.AssertNotCalled(t, "Detect", mock.Anything, mock.Anything)
	})

	t.Run("missing file is a 400", func(t *testing.T) {
		router, _ := newTestRouter(t, nil, nil, true)
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.Close())
		recorder := postFile(router, &buf, writer.FormDataContentType())
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("model fault is a 500", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		session := new(detector.MockSession)
		session.On("Detect", mock.Anything, mock.Anything).Return(nil, errors.New("session state corrupt"))
		handler := SetMockDetectHandler(detector.NewAdapter(session, 640, 0), nil, 60, "visage-test", true)
		router := gin.New()
		router.POST("/detect", handler.PostDetect)

		body, formType := multipartBody(t, "photo.png", "image/png", pngBytes(t, 64, 64))
		recorder := postFile(router, body, formType)
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

func TestPostDetectCache(t *testing.T) {
	cache := newFakeCache()
	router, session := newTestRouter(t, []detector.Face{sampleFace()}, cache, true)
	data := pngBytes(t, 700, 500)

	body, formType := multipartBody(t, "first.png", "image/png", data)
	recorder := postFile(router, body, formType)
	require.Equal(t, http.StatusOK, recorder.Code)

	// same bytes under a different name reuse the cached detection
	body, formType = multipartBody(t, "second.png", "image/png", data)
	recorder = postFile(router, body, formType)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response DetectResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "second.png", response.Request.FileName)
	assert.Equal(t, 700, response.Request.ImageWidth)
	require.Len(t, response.Response.Faces, 1)
	assert.Nil(t, response.Response.DetectionTimeInNanoseconds)

	session.AssertNumberOfCalls(t, "Detect", 1)
}

func TestPostDetectCacheCorruptEntry(t *testing.T) {
	cache := newFakeCache()
	router, session := newTestRouter(t, []detector.Face{sampleFace()}, cache, false)
	data := pngBytes(t, 700, 500)
	digest := sha1.Sum(data)
	require.NoError(t, cache.Set([]byte(hex.EncodeToString(digest[:])), []byte("not json")))

	body, formType := multipartBody(t, "photo.png", "image/png", data)
	recorder := postFile(router, body, formType)
	require.Equal(t, http.StatusOK, recorder.Code)

	// the corrupt entry is dropped and detection runs
	session.AssertNumberOfCalls(t, "Detect", 1)
	_, err := cache.Get([]byte(hex.EncodeToString(digest[:])))
	assert.NoError(t, err) // re-populated with the fresh result
}
