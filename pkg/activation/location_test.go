package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathTransform(t *testing.T) {
	dev := PathTransform{DeployRoot: "/velzon/angular/master"}
	prod := PathTransform{Production: true, DeployRoot: "/velzon/angular/master"}

	tests := []struct {
		name string
		t    PathTransform
		raw  string
		want string
	}{
		{"plain", dev, "/app/jobs/list", "/app/jobs/list"},
		{"query dropped", dev, "/app/jobs/list?page=2", "/app/jobs/list"},
		{"return url wins", dev, "/login?returnUrl=/app/jobs/edit/4%3Ftab%3D2", "/app/jobs/edit/4"},
		{"unauthorized without return url", dev, "/page-401", ""},
		{"unauthorized with return url", dev, "/page-401?returnUrl=/app/items/list", "/app/items/list"},
		{"dev keeps root", dev, "/velzon/angular/master/app/x", "/velzon/angular/master/app/x"},
		{"prod strips root", prod, "/velzon/angular/master/app/x", "/app/x"},
		{"zero value", PathTransform{}, "/app/x", "/app/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.t.Location(tt.raw))
		})
	}
}

func TestPathTransformAppliesToLinks(t *testing.T) {
	f := newFixture(t, WithPathTransform(PathTransform{Production: true, DeployRoot: "/root"}))
	for _, l := range f.view.links {
		l.Path = "/root" + l.Path
	}

	res := f.settle(t, "/root/app/items/list")

	assert.Equal(t, "/app/items/list", res.Path)
	assert.True(t, res.Highlighted())
	assert.Equal(t, RuleExact, res.Rule)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "resolving", Resolving.String())
	assert.Equal(t, "applied", Applied.String())
}
