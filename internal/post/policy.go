package post

import (
	"sort"

	"github.com/Neomeniam/GeoMemories-DRF/internal/shared/geo"
)

// The admissibility predicate is the AND of two independent axes: the social
// visibility tier and the location access tier. Both are pure functions so
// result semantics stay identical whether candidates come from a pushed-down
// query or an in-memory slice.

// SociallyVisible decides the social layer. friends is the viewer's resolved
// friend set; an unknown tier is treated as hidden.
func SociallyVisible(p Post, viewerID string, friends map[string]struct{}) bool {
	switch p.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityPrivate:
		return viewerID == p.AuthorID
	case VisibilityFriends:
		if viewerID == p.AuthorID {
			return true
		}
		_, ok := friends[p.AuthorID]
		return ok
	default:
		return false
	}
}

// LocationVisible decides the location layer, independent of the social one.
// Authors always pass. Nearby-gated posts require the viewer coordinate to be
// within NearbyRadiusM of the post coordinate; a missing coordinate on either
// side fails closed.
func LocationVisible(p Post, viewerID string, viewer *geo.Coord) bool {
	if viewerID == p.AuthorID {
		return true
	}
	if p.LocationAccess != LocationNearby {
		return true
	}
	loc := Coordinate(p)
	if viewer == nil || loc == nil {
		return false
	}
	return geo.MetersBetween(*viewer, *loc) <= NearbyRadiusM
}

// Admissible is the combined predicate.
func Admissible(p Post, viewerID string, friends map[string]struct{}, viewer *geo.Coord) bool {
	return SociallyVisible(p, viewerID, friends) && LocationVisible(p, viewerID, viewer)
}

// VisiblePosts filters candidates through the admissibility predicate. With a
// viewer coordinate, surviving posts are annotated with their distance and
// ordered nearest first, posts without a coordinate after all others, newest
// first within ties. Without one, the default feed order is newest first.
func VisiblePosts(candidates []Post, viewerID string, friends map[string]struct{}, viewer *geo.Coord) []Post {
	out := make([]Post, 0, len(candidates))
	for _, p := range candidates {
		if !Admissible(p, viewerID, friends, viewer) {
			continue
		}
		if viewer != nil {
			if loc := Coordinate(p); loc != nil {
				d := geo.MetersBetween(*viewer, *loc)
				p.DistanceM = &d
			}
		}
		out = append(out, p)
	}

	if viewer != nil {
		sortByDistance(out)
	} else {
		sortByRecency(out)
	}
	return out
}

// Coordinate returns the post's coordinate, or nil when none was recorded.
func Coordinate(p Post) *geo.Coord {
	if p.Lat == nil || p.Lng == nil {
		return nil
	}
	return &geo.Coord{Lat: *p.Lat, Lng: *p.Lng}
}

func sortByDistance(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		di, dj := posts[i].DistanceM, posts[j].DistanceM
		switch {
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		case di != nil && dj != nil && *di != *dj:
			return *di < *dj
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func sortByRecency(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
