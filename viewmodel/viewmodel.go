/*
Package viewmodel converts message.Item values into observable view-models.

A view-model wraps exactly one item for as long as the item is materialized
in the hosting list. Its observable properties are written from the frame
goroutine only: results of asynchronous loads must first be posted through a
dispatch.Queue.
*/
package viewmodel

import (
	"image"
	"time"

	"git.sr.ht/~gioverse/chatitems/message"
	"git.sr.ht/~gioverse/chatitems/observable"
)

// ObscuredText replaces the text of hidden and deleted messages.
const ObscuredText = "xxxxxxx xxxxxxx"

// ViewModel is implemented by the view-models of every supported kind.
type ViewModel interface {
	Kind() message.Kind
	// Item returns the wrapped domain item.
	Item() message.Item
	// Base returns the shared transfer state of the view-model.
	Base() *Media
	// Text returns the text to display, which is obscured for hidden or
	// deleted messages.
	Text() string
}

// Message exposes the metadata common to every message.
type Message struct {
	msg message.Message
	// Avatar of the sender. Nil until loaded.
	Avatar *observable.Property[image.Image]
}

// NewMessage wraps the common metadata of a message.
func NewMessage(msg message.Message) *Message {
	return &Message{
		msg:    msg,
		Avatar: observable.New[image.Image](nil),
	}
}

func (m *Message) Serial() message.Serial { return m.msg.ID }
func (m *Message) Sender() string { return m.msg.Sender }
func (m *Message) SentAt() time.Time { return m.msg.SentAt }
func (m *Message) Status() message.Status { return m.msg.Status }
func (m *Message) IsIncoming() bool { return m.msg.Incoming() }
func (m *Message) IsHidden() bool { return m.msg.Hidden }
func (m *Message) IsDeleted() bool { return m.msg.Deleted }

// Obscured reports whether the content must not be shown.
func (m *Message) Obscured() bool {
	return m.msg.Hidden || m.msg.Deleted
}

// IsShowingFailedIcon reports whether delivery of the message failed.
func (m *Message) IsShowingFailedIcon() bool {
	return m.msg.Status == message.Failed
}

// Media holds the observable transfer state shared by every media kind.
type Media struct {
	*Message
	TransferStatus    *observable.Property[TransferStatus]
	TransferProgress  *observable.Property[float64]
	TransferDirection *observable.Property[TransferDirection]
	// Image is nil until loaded.
	Image *observable.Property[image.Image]

	media message.Media
}

func newMedia(item message.Item) *Media {
	media := message.MediaOf(item)
	return &Media{
		Message:           NewMessage(item.Base()),
		TransferStatus:    observable.New(Idle),
		TransferProgress:  observable.New(0.0),
		TransferDirection: observable.New(Download),
		Image:             observable.New(media.Image),
		media:             media,
	}
}

// ImageSize returns the natural size of the attached image.
func (m *Media) ImageSize() image.Point {
	return m.media.ImageSize
}

// ImageURL returns the location of the full image.
func (m *Media) ImageURL() string {
	return m.media.ImageURL
}

// ThumbnailURL returns the location of the image preview.
func (m *Media) ThumbnailURL() string {
	return m.media.ThumbnailURL
}

// IsShowingFailedIcon reports whether either delivery of the message or the
// media transfer failed.
func (m *Media) IsShowingFailedIcon() bool {
	return m.Message.IsShowingFailedIcon() || m.TransferStatus.Get() == Failed
}

// SetProgress writes the transfer progress clamped into [0,1].
func (m *Media) SetProgress(p float64) {
	m.TransferProgress.Set(clamp(p))
}

// ProgressIndicator derives the state of the progress indicator.
func (m *Media) ProgressIndicator() ProgressStatus {
	return Progress(m.TransferStatus.Get(), m.TransferProgress.Get())
}

// Photo is the view-model of a message.Photo.
type Photo struct {
	*Media
	item message.Photo
}

func (p *Photo) Kind() message.Kind { return message.KindPhoto }
func (p *Photo) Item() message.Item { return p.item }
func (p *Photo) Base() *Media { return p.Media }
func (p *Photo) Text() string { return "" }

// PhotoText is the view-model of a message.PhotoText.
type PhotoText struct {
	*Media
	item message.PhotoText
}

func (p *PhotoText) Kind() message.Kind { return message.KindPhotoText }
func (p *PhotoText) Item() message.Item { return p.item }
func (p *PhotoText) Base() *Media { return p.Media }

// Text returns the display text.
func (p *PhotoText) Text() string {
	if p.Obscured() {
		return ObscuredText
	}
	return p.item.Text
}

// VideoText is the view-model of a message.VideoText.
type VideoText struct {
	*Media
	item message.VideoText
}

func (v *VideoText) Kind() message.Kind { return message.KindVideoText }
func (v *VideoText) Item() message.Item { return v.item }
func (v *VideoText) Base() *Media { return v.Media }

// Text returns the display text.
func (v *VideoText) Text() string {
	if v.Obscured() {
		return ObscuredText
	}
	return v.item.Text
}

// Duration of the attached video.
func (v *VideoText) Duration() time.Duration {
	return v.item.Duration
}
