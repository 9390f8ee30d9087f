package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Payload
		wantErr bool
	}{
		{name: "base64 png", in: "data:image/png;base64,aGk=", want: Payload{MediaType: "image/png", Data: []byte("hi")}},
		{name: "plain text default", in: "data:,hello%20world", want: Payload{MediaType: "text/plain", Data: []byte("hello world")}},
		{name: "params", in: "data:text/plain; charset=utf-8;base64,aGk=", want: Payload{MediaType: "text/plain", Data: []byte("hi")}},
		{name: "not data", in: "https://x/y.png", wantErr: true},
		{name: "no comma", in: "data:image/png;base64", wantErr: true},
		{name: "bad base64", in: "data:image/png;base64,@@@", wantErr: true},
		{name: "empty", in: "data:image/png;base64,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDataURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayloadExtension(t *testing.T) {
	assert.Equal(t, ".png", Payload{MediaType: "image/png"}.Extension())
	assert.Equal(t, ".jpg", Payload{MediaType: "image/jpeg"}.Extension())
	assert.Equal(t, ".bin", Payload{MediaType: "application/x-unknown-thing"}.Extension())
}
