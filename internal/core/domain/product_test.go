package domain

import (
	"errors"
	"testing"
)

func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"T-Shirt Teslo":          "t-shirt_teslo",
		"Men's Chill Crew Neck":  "mens_chill_crew_neck",
		"already_normal":         "already_normal",
		"  Two  Spaces ":         "__two__spaces_",
		"O'Neil''s   Tee":        "oneils___tee",
		"":                       "",
		"KIDS CYBERTRUCK HOODIE": "kids_cybertruck_hoodie",
	}
	for in, want := range cases {
		if got := NormalizeSlug(in); got != want {
			t.Errorf("NormalizeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeSlug_Idempotent(t *testing.T) {
	inputs := []string{
		"T-Shirt Teslo",
		"Women's Raven Slouchy Crew",
		"ÀÉÎ Õü ' ' '",
		"İstanbul Tee",
		"x",
	}
	for _, in := range inputs {
		once := NormalizeSlug(in)
		if twice := NormalizeSlug(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestProduct_PrepareInsert_SeedsSlugFromTitle(t *testing.T) {
	p := &Product{Title: "T-Shirt Teslo"}
	p.PrepareInsert()

	if p.Slug != "t-shirt_teslo" {
		t.Fatalf("expected slug t-shirt_teslo, got %q", p.Slug)
	}
	if p.Tags == nil || len(p.Tags) != 0 {
		t.Fatalf("expected empty tags, got %v", p.Tags)
	}
}

func TestProduct_PrepareInsert_NormalizesSuppliedSlug(t *testing.T) {
	p := &Product{Title: "Whatever", Slug: "My Custom Slug's"}
	p.PrepareInsert()

	if p.Slug != "my_custom_slugs" {
		t.Fatalf("expected normalized caller slug, got %q", p.Slug)
	}
}

func TestProduct_PrepareUpdate_KeepsSlugIndependentOfTitle(t *testing.T) {
	p := &Product{Title: "New Title", Slug: "Old Slug"}
	p.PrepareUpdate()

	if p.Slug != "old_slug" {
		t.Fatalf("expected old_slug, got %q", p.Slug)
	}
}

func TestNewImages_PreservesOrder(t *testing.T) {
	p := &Product{Images: NewImages([]string{"b.jpg", "a.jpg", "c.jpg"})}

	got := p.ImageURLs()
	want := []string{"b.jpg", "a.jpg", "c.jpg"}
	if len(got) != len(want) {
		t.Fatalf("expected %d urls, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("url[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseRoles_DropsUnknown(t *testing.T) {
	roles := ParseRoles([]string{"admin", "root", "user"})
	if len(roles) != 2 || roles[0] != RoleAdmin || roles[1] != RoleUser {
		t.Fatalf("unexpected roles: %v", roles)
	}
}

func TestUser_IdentityCopiesRoles(t *testing.T) {
	u := &User{ID: "u1", Email: "a@b.c", Active: true, Roles: []Role{RoleUser}}
	id := u.Identity()
	id.Roles[0] = RoleAdmin

	if u.Roles[0] != RoleUser {
		t.Fatalf("identity must not alias the user's roles")
	}
	if !id.HasAnyRole(RoleAdmin, RoleSuperUser) {
		t.Fatalf("expected identity to hold admin")
	}
}

func TestNotFoundError_MatchesSentinel(t *testing.T) {
	var err error = &NotFoundError{Term: "abc"}
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected NotFoundError to match ErrProductNotFound")
	}
	if err.Error() != "product with abc not found" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
