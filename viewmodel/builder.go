package viewmodel

import (
	chatitems "git.sr.ht/~gioverse/chatitems"
	"git.sr.ht/~gioverse/chatitems/message"
)

// Builder converts domain items into view-models.
type Builder interface {
	// CanCreate reports whether the builder is specialized for the item.
	CanCreate(item message.Item) bool
	// Create wraps the item in a new view-model. It panics if CanCreate
	// would return false.
	Create(item message.Item) ViewModel
}

// PhotoBuilder builds view-models for message.Photo items.
type PhotoBuilder struct{}

func (PhotoBuilder) CanCreate(item message.Item) bool {
	return item != nil && item.Kind() == message.KindPhoto
}

func (PhotoBuilder) Create(item message.Item) ViewModel {
	p, ok := item.(message.Photo)
	if !ok {
		panic(chatitems.Violation("photo builder cannot create a view-model from %T", item))
	}
	return &Photo{Media: newMedia(p), item: p}
}

// PhotoTextBuilder builds view-models for message.PhotoText items.
type PhotoTextBuilder struct{}

func (PhotoTextBuilder) CanCreate(item message.Item) bool {
	return item != nil && item.Kind() == message.KindPhotoText
}

func (PhotoTextBuilder) Create(item message.Item) ViewModel {
	p, ok := item.(message.PhotoText)
	if !ok {
		panic(chatitems.Violation("photo-text builder cannot create a view-model from %T", item))
	}
	return &PhotoText{Media: newMedia(p), item: p}
}

// VideoTextBuilder builds view-models for message.VideoText items.
type VideoTextBuilder struct{}

func (VideoTextBuilder) CanCreate(item message.Item) bool {
	return item != nil && item.Kind() == message.KindVideoText
}

func (VideoTextBuilder) Create(item message.Item) ViewModel {
	v, ok := item.(message.VideoText)
	if !ok {
		panic(chatitems.Violation("video-text builder cannot create a view-model from %T", item))
	}
	return &VideoText{Media: newMedia(v), item: v}
}

// BuilderFor returns the default builder for a kind.
func BuilderFor(kind message.Kind) Builder {
	switch kind {
	case message.KindPhoto:
		return PhotoBuilder{}
	case message.KindPhotoText:
		return PhotoTextBuilder{}
	case message.KindVideoText:
		return VideoTextBuilder{}
	default:
		panic(chatitems.Violation("no view-model builder for %v", kind))
	}
}
