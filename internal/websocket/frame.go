package websocket

// Frame is the JSON envelope written to chat sockets.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	FrameAnswer = "answer"
	FrameError  = "error"
)

// inbound is what a socket sends to ask a question.
type inbound struct {
	Question string `json:"question"`
}

func ErrorFrame(message string) Frame {
	return Frame{Type: FrameError, Data: map[string]string{"message": message}}
}
