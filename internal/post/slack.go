package post

import (
	"fmt"
	"log"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-resty/resty/v2"
)

type logFn func(s string, args ...interface{})

var (
	infFn logFn = func(s string, args ...interface{}) {}
	errFn logFn = func(s string, args ...interface{}) {}
)

// Text is a Block Kit text object, plain_text or mrkdwn.
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Block covers the block shapes the digest emits: header, section,
// divider and context.
type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Elements []Text `json:"elements,omitempty"`
}

func headerBlock(s string) Block {
	return Block{Type: "header", Text: &Text{Type: "plain_text", Text: s, Emoji: true}}
}

func sectionBlock(s string) Block {
	return Block{Type: "section", Text: &Text{Type: "mrkdwn", Text: s}}
}

func dividerBlock() Block {
	return Block{Type: "divider"}
}

func contextBlock(s string) Block {
	return Block{Type: "context", Elements: []Text{{Type: "mrkdwn", Text: s}}}
}

// Message is the chat.postMessage payload: the block document plus the
// plain-text fallback for clients that cannot render blocks.
type Message struct {
	Channel string  `json:"channel"`
	Text    string  `json:"text"`
	Blocks  []Block `json:"blocks,omitempty"`
}

type PosterFn func(Message) error

// DeliveryError is returned when the chat API rejects a message, either
// with a non-success status or with an ok:false body.
type DeliveryError struct {
	Status int
	Reason string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("chat api returned %d: %s", e.Status, e.Reason)
}

const defaultChatURL = "https://slack.com/api"

func NewSlackClient(token string) *resty.Client {
	return resty.New().
		SetBaseURL(defaultChatURL).
		SetAuthToken(token).
		SetTimeout(30 * time.Second)
}

type slackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ToSlack delivers messages through cl. The API reports most failures
// as a 200 with ok:false, which counts as a delivery failure too.
func ToSlack(cl *resty.Client) PosterFn {
	if cl == nil {
		return ToStdout
	}
	logger := lw.Dev()
	errFn = logger.Errorf
	infFn = logger.Infof

	return func(m Message) error {
		res := slackResponse{}
		resp, err := cl.R().
			SetBody(m).
			SetResult(&res).
			Post("/chat.postMessage")
		if err != nil {
			return fmt.Errorf("unable to post message: %w", err)
		}
		if resp.IsError() {
			return &DeliveryError{Status: resp.StatusCode(), Reason: string(resp.Body())}
		}
		if !res.OK {
			errFn("Delivery to %s rejected: %s", m.Channel, res.Error)
			return &DeliveryError{Status: resp.StatusCode(), Reason: res.Error}
		}
		infFn("Posted %d blocks to %s", len(m.Blocks), m.Channel)
		return nil
	}
}

// ToStdout renders the message to the log instead of delivering it.
func ToStdout(m Message) error {
	f := log.Flags()
	log.SetFlags(0)
	log.Printf("-> %s: %s\n", m.Channel, m.Text)
	for _, b := range m.Blocks {
		switch {
		case b.Text != nil:
			log.Printf("[%s] %s", b.Type, b.Text.Text)
		case len(b.Elements) > 0:
			log.Printf("[%s] %s", b.Type, b.Elements[0].Text)
		default:
			log.Printf("[%s]", b.Type)
		}
	}
	log.SetFlags(f)
	return nil
}
