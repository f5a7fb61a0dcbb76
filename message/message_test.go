package message

import "testing"

func TestVariants(t *testing.T) {
	for _, tt := range []struct {
		Label string
		Item  Item
		Kind  Kind
		Text  string
	}{
		{
			Label: "photo",
			Item:  Photo{Message: Message{ID: "a"}},
			Kind:  KindPhoto,
		},
		{
			Label: "photo text",
			Item:  PhotoText{Message: Message{ID: "b"}, Text: "hello"},
			Kind:  KindPhotoText,
			Text:  "hello",
		},
		{
			Label: "video text",
			Item:  VideoText{Message: Message{ID: "c"}, Text: "clip"},
			Kind:  KindVideoText,
			Text:  "clip",
		},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			if got := tt.Item.Kind(); got != tt.Kind {
				t.Errorf("kind: want %v, got %v", tt.Kind, got)
			}
			if got := TextOf(tt.Item); got != tt.Text {
				t.Errorf("text: want %q, got %q", tt.Text, got)
			}
			if tt.Item.Serial() != tt.Item.Base().ID {
				t.Errorf("serial and base ID disagree")
			}
		})
	}
}

func TestIncoming(t *testing.T) {
	if !(Message{Direction: Incoming}).Incoming() {
		t.Errorf("expected incoming")
	}
	if (Message{Direction: Outgoing}).Incoming() {
		t.Errorf("expected outgoing")
	}
}
