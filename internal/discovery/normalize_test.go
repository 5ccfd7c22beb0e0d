package discovery

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/users/:id", "/users/{id}"},
		{"users/<int:user_id>/", "/users/{user_id}"},
		{"<name>", "/{name}"},
		{`^comments/(?P<pk>[0-9]+)/$`, "/comments/{pk}"},
		{"/posts/{post?}", "/posts/{post}"},
		{"/already/{fine}", "/already/{fine}"},
		{"/", "/"},
		{"", "/"},
		{"/trailing/", "/trailing"},
		{"/mixed/:a/<b>/{c}", "/mixed/{a}/{b}/{c}"},
	}
	for _, tc := range cases {
		if got := normalizePath(tc.in); got != tc.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestJoinPrefix(t *testing.T) {
	cases := []struct {
		prefix string
		part   string
		want   string
	}{
		{"cats", "", "/cats"},
		{"cats", ":id", "/cats/:id"},
		{"/api/orders", "/bulk", "/api/orders/bulk"},
		{"", "", "/"},
		{"", "health", "/health"},
		{"v1/", "users", "/v1/users"},
	}
	for _, tc := range cases {
		if got := joinPrefix(tc.prefix, tc.part); got != tc.want {
			t.Fatalf("joinPrefix(%q, %q) = %q, want %q", tc.prefix, tc.part, got, tc.want)
		}
	}
}
