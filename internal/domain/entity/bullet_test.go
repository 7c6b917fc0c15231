package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBulletList_Render(t *testing.T) {
	tests := []struct {
		name string
		list BulletList
		want string
	}{
		{name: "empty", list: BulletList{}, want: ""},
		{name: "default marker", list: BulletList{Items: []string{"New line here."}}, want: "- New line here."},
		{
			name: "custom marker",
			list: BulletList{Items: []string{"one", "two"}, Marker: "* "},
			want: "* one\n* two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.list.Render())
			assert.Equal(t, len(tt.list.Items), tt.list.Len())
		})
	}
}
