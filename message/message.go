/*
Package message provides the domain models for media chat items.

Items form a closed set: Photo, PhotoText and VideoText. Consumers switch on
Kind (or type switch) rather than probing for arbitrary dynamic types.
*/
package message

import (
	"fmt"
	"image"
	"time"
)

// Serial uniquely identifies a chat item.
type Serial string

// NoSerial marks an item that has no identity and therefore no persistent
// presentation state.
const NoSerial = Serial("")

// Direction of a message relative to the local user.
type Direction uint8

const (
	// Incoming messages were sent by somebody else.
	Incoming Direction = iota
	// Outgoing messages were sent by the local user.
	Outgoing
)

func (d Direction) String() string {
	switch d {
	case Incoming:
		return "incoming"
	case Outgoing:
		return "outgoing"
	default:
		return "unknown direction"
	}
}

// Status is the delivery status of a message.
type Status uint8

const (
	Success Status = iota
	Sending
	Failed
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Sending:
		return "sending"
	case Failed:
		return "failed"
	default:
		return "unknown status"
	}
}

// Kind tags the concrete variant of an Item.
type Kind uint8

const (
	KindPhoto Kind = iota
	KindPhotoText
	KindVideoText
)

func (k Kind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindPhotoText:
		return "photoText"
	case KindVideoText:
		return "videoText"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Message holds the metadata common to every chat item.
type Message struct {
	ID        Serial
	Sender    string
	Direction Direction
	Status    Status
	SentAt    time.Time
	// Hidden and Deleted messages are presented as a fixed-size placeholder
	// bubble with obscured text.
	Hidden  bool
	Deleted bool
}

// Serial returns the unique identifier of the message.
func (m Message) Serial() Serial {
	return m.ID
}

// Incoming reports whether the message was sent by somebody else.
func (m Message) Incoming() bool {
	return m.Direction == Incoming
}

// Media describes the visual attachment of a message.
type Media struct {
	// Image is the initially available image, if any.
	Image image.Image
	// ImageSize is the natural size of the full image in pixels.
	ImageSize image.Point
	// ImageURL locates the full image.
	ImageURL string
	// ThumbnailURL locates a smaller preview of the image.
	ThumbnailURL string
}

// Item is a chat item that can be presented by this module.
type Item interface {
	Serial() Serial
	Kind() Kind
	// Base returns the common message metadata.
	Base() Message
	isItem()
}

// Photo is a message with only an image.
type Photo struct {
	Message
	Media
}

// PhotoText is a message with text and an image thumbnail.
type PhotoText struct {
	Message
	Media
	Text string
}

// VideoText is a message with text and a video preview frame.
type VideoText struct {
	Message
	Media
	Text string
	// Duration of the video.
	Duration time.Duration
}

func (Photo) Kind() Kind { return KindPhoto }
func (PhotoText) Kind() Kind { return KindPhotoText }
func (VideoText) Kind() Kind { return KindVideoText }

func (p Photo) Base() Message { return p.Message }
func (p PhotoText) Base() Message { return p.Message }
func (v VideoText) Base() Message { return v.Message }

func (Photo) isItem() {}
func (PhotoText) isItem() {}
func (VideoText) isItem() {}

// TextOf returns the text carried by the item, or the empty string.
func TextOf(item Item) string {
	switch it := item.(type) {
	case PhotoText:
		return it.Text
	case VideoText:
		return it.Text
	default:
		return ""
	}
}

// MediaOf returns the media carried by the item.
func MediaOf(item Item) Media {
	switch it := item.(type) {
	case Photo:
		return it.Media
	case PhotoText:
		return it.Media
	case VideoText:
		return it.Media
	default:
		return Media{}
	}
}
