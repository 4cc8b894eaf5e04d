package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/sesitech/agrichat/internal/adapters/http"
	"github.com/sesitech/agrichat/internal/adapters/llm"
	"github.com/sesitech/agrichat/internal/adapters/storage/memory"
	"github.com/sesitech/agrichat/internal/app/chat"
	"github.com/sesitech/agrichat/internal/app/report"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	mock := llm.NewMock()
	store := memory.NewStore()

	chatSvc := chat.NewService(store, mock, chat.Policy{DetachAfterAnswer: true})
	reportSvc := report.NewService(chatSvc, mock)

	return httpadapter.NewServer(chatSvc, reportSvc)
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func uploadFile(t *testing.T, srv http.Handler, name, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test content"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCreateSessionAndSendMessage(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/sessions", map[string]string{"title": ""})
	require.Equal(t, http.StatusCreated, w.Code, "body=%s", w.Body.String())

	var sess struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "New Chat", sess.Title)

	w = doJSON(t, srv, http.MethodPost, "/sessions/"+sess.ID+"/messages", map[string]string{"text": "How do I treat maize rust?"})
	require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())

	var out struct {
		AssistantMessage struct {
			Content string `json:"content"`
			Source  string `json:"source"`
		} `json:"assistant_message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.NotEmpty(t, out.AssistantMessage.Content)
	assert.Equal(t, "General Knowledge", out.AssistantMessage.Source)
}

func TestSessionlessSendCreatesSession(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/messages", map[string]string{"text": "When should I plant cassava?"})
	require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())

	var out struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.SessionID)

	w = doJSON(t, srv, http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state struct {
		ActiveID string `json:"active_session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, out.SessionID, state.ActiveID)
}

func TestSendBlankMessageIsRejected(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var sess struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))

	w = doJSON(t, srv, http.MethodPost, "/sessions/"+sess.ID+"/messages", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSendToUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/sessions/nope/messages", map[string]string{"text": "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadAndGroundedQuestion(t *testing.T) {
	srv := newTestServer(t)

	w := uploadFile(t, srv, "report.pdf", "application/pdf")
	require.Equal(t, http.StatusCreated, w.Code, "body=%s", w.Body.String())

	var sess struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		View     string `json:"view"`
		Document *struct {
			Name string `json:"name"`
		} `json:"document"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, "report.pdf", sess.Title)
	assert.Equal(t, "choosing", sess.View)
	require.NotNil(t, sess.Document)

	w = doJSON(t, srv, http.MethodPost, "/sessions/"+sess.ID+"/action", map[string]string{"action": "chat"})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/sessions/"+sess.ID+"/messages", map[string]string{"text": "What is the nitrogen level?"})
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		AssistantMessage struct {
			Source string `json:"source"`
		} `json:"assistant_message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "report.pdf, page 1", out.AssistantMessage.Source)
}

func TestUploadInvalidTypeIs400(t *testing.T) {
	srv := newTestServer(t)

	w := uploadFile(t, srv, "photo.png", "image/png")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state struct {
		Sessions []json.RawMessage `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Empty(t, state.Sessions, "a rejected upload must not create state")
}

func TestDeleteSessionKeepsActiveInvariant(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var sess struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))

	w = doJSON(t, srv, http.MethodDelete, "/sessions/"+sess.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var state struct {
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
		ActiveID string `json:"active_session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.Len(t, state.Sessions, 1)
	assert.Equal(t, state.Sessions[0].ID, state.ActiveID)
	assert.NotEqual(t, sess.ID, state.ActiveID)
}

func TestFormatReport(t *testing.T) {
	srv := newTestServer(t)

	w := uploadFile(t, srv, "soil-test.pdf", "application/pdf")
	require.Equal(t, http.StatusCreated, w.Code)
	var sess struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))

	w = doJSON(t, srv, http.MethodPost, "/sessions/"+sess.ID+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())

	var rep struct {
		FarmDetails  string `json:"farm_details"`
		MoneyMatters string `json:"money_matters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.NotEmpty(t, rep.FarmDetails)
	assert.NotEmpty(t, rep.MoneyMatters)
}

func TestReportWithoutDocumentIs400(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var sess struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))

	w = doJSON(t, srv, http.MethodPost, "/sessions/"+sess.ID+"/report", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
