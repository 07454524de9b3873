package control

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/LckyLuciano/meshmon/internal/model"
)

var reqCounter atomic.Uint64

// MsgType identifies the kind of message.
type MsgType string

const (
	MsgTypeReq MsgType = "req"
	MsgTypeRes MsgType = "res"
	MsgTypeEvt MsgType = "evt"
)

// Message is the NDJSON envelope for all communication.
type Message struct {
	Type   MsgType         `json:"type"`
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// UnmarshalData decodes the message payload into v.
func (m Message) UnmarshalData(v any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("message %s has no data", m.ID)
	}
	return json.Unmarshal(m.Data, v)
}

// NewRequest creates a new request message with a unique ID.
func NewRequest(method string, data any) (Message, error) {
	id := fmt.Sprintf("req-%d", reqCounter.Add(1))
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return Message{}, err
		}
		raw = b
	}
	return Message{
		Type:   MsgTypeReq,
		ID:     id,
		Method: method,
		Data:   raw,
	}, nil
}

// NewResponse creates a response to a request.
func NewResponse(reqID, method string, data any) (Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return Message{}, err
		}
		raw = b
	}
	return Message{
		Type:   MsgTypeRes,
		ID:     reqID,
		Method: method,
		Data:   raw,
	}, nil
}

// NewErrorResponse creates an error response.
func NewErrorResponse(reqID, method, errMsg string) Message {
	return Message{
		Type:   MsgTypeRes,
		ID:     reqID,
		Method: method,
		Error:  errMsg,
	}
}

// NewEvent creates a server-pushed event.
func NewEvent(method string, data any) (Message, error) {
	id := fmt.Sprintf("evt-%d", reqCounter.Add(1))
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return Message{}, err
		}
		raw = b
	}
	return Message{
		Type:   MsgTypeEvt,
		ID:     id,
		Method: method,
		Data:   raw,
	}, nil
}

// Methods
const (
	MethodPing            = "Ping"
	MethodStatus          = "Status"
	MethodEvents          = "Events"
	MethodLogsSubscribe   = "LogsSubscribe"
	MethodLogsUnsubscribe = "LogsUnsubscribe"

	EventWatch   = "watch.event"
	EventLogLine = "logs.line"
)

// PingResponse is the response to a Ping request.
type PingResponse struct {
	Pong bool `json:"pong"`
}

// StatusResponse is the response to a Status request. The journal
// totals span daemon restarts, unlike the session counter in Watchdog.
type StatusResponse struct {
	Version         string              `json:"version"`
	StartedAt       time.Time           `json:"started_at"`
	Watchdog        model.WatchStatus   `json:"watchdog"`
	ContainerState  string              `json:"container_state,omitempty"`
	TotalDetections int64               `json:"total_detections"`
	TotalRestarts   int64               `json:"total_restarts"`
	Bridge          *model.BridgeStatus `json:"bridge,omitempty"`
}

// EventsRequest is the payload for an Events request.
type EventsRequest struct {
	Limit int `json:"limit"`
}

// EventsResponse carries journaled watchdog events, newest first.
type EventsResponse struct {
	Events []model.WatchEvent `json:"events"`
}
