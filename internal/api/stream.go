package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const streamChunkSize = 64 * 1024

var upgrader = websocket.Upgrader{
	ReadBufferSize:  streamChunkSize,
	WriteBufferSize: streamChunkSize,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsReader adapts a websocket connection's binary message stream to
// io.Reader, buffering the tail of a message that didn't fit the
// caller's slice.
type wsReader struct {
	conn *websocket.Conn
	buf  []byte
}

func (w *wsReader) Read(p []byte) (int, error) {
	for len(w.buf) == 0 {
		msgType, data, err := w.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if msgType == websocket.CloseMessage {
			return 0, io.EOF
		}
		w.buf = data
	}
	n := copy(p, w.buf)
	w.buf = w.buf[n:]
	return n, nil
}

// wsWriter adapts a websocket connection to io.Writer, one binary
// message per Write call.
type wsWriter struct {
	conn *websocket.Conn
}

func (w *wsWriter) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Stream upgrades a request to a websocket, reads one JSON control frame
// naming the cipher spec, then pipes subsequent binary frames through
// symmetric.Context's streaming Encrypt/Decrypt, chunk by chunk, writing
// transformed chunks back over the same connection.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := OperatorID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing operator id")
		return
	}
	op := mux.Vars(r)["op"]
	if op != "encrypt" && op != "decrypt" {
		writeError(w, http.StatusBadRequest, "op must be encrypt or decrypt")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("stream: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	_, controlFrame, err := conn.ReadMessage()
	if err != nil {
		return
	}
	var spec CipherSpec
	if err := json.Unmarshal(controlFrame, &spec); err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid control frame"})
		return
	}

	cc, err := buildContext(spec)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	defer cc.Dispose()

	src := &wsReader{conn: conn}
	dst := &wsWriter{conn: conn}

	var streamErr error
	if op == "encrypt" {
		streamErr = cc.EncryptStream(dst, src, streamChunkSize)
	} else {
		streamErr = cc.DecryptStream(dst, src, streamChunkSize)
	}

	if streamErr != nil && streamErr != io.EOF {
		slog.Error("stream: transform failed", "operator_id", operatorID, "op", op, "error", streamErr)
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, streamErr.Error()))
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
