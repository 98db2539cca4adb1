package site

import "fmt"

type RouteKind string

const (
	RouteFeed     RouteKind = "feed"
	RoutePost     RouteKind = "post"
	RouteAuthors  RouteKind = "authors"
	RouteAuthor   RouteKind = "author"
	RouteManifest RouteKind = "manifest"
)

// Route is one addressable document of the exported site.
type Route struct {
	Kind    RouteKind
	Slug    string
	OutPath string
}

// PostOut is the export path for one post document.
func PostOut(slug string) Route {
	return Route{
		Kind:    RoutePost,
		Slug:    slug,
		OutPath: fmt.Sprintf("posts/%s.json", slug),
	}
}

func AuthorOut(id string) Route {
	return Route{
		Kind:    RouteAuthor,
		Slug:    id,
		OutPath: fmt.Sprintf("authors/%s.json", id),
	}
}

// FeedOut is the export path for the site-wide post feed.
func FeedOut() Route {
	return Route{Kind: RouteFeed, OutPath: "index.json"}
}

// AuthorsOut is the export path for the author collection document.
func AuthorsOut() Route {
	return Route{Kind: RouteAuthors, OutPath: "authors.json"}
}

// ManifestOut is the export path for the editor manifest.
func ManifestOut() Route {
	return Route{Kind: RouteManifest, OutPath: "admin/config.yml"}
}
