package index

var (
	bAuthors = []byte("authors") // author id -> entityBytes
	bPosts   = []byte("posts")   // slug -> recordBytes

	bIdxPub     = []byte("idx_pub")     // inverted pubDate key -> marker
	bIdxUpdated = []byte("idx_updated") // inverted effective-updated key -> marker
	bIdxCat     = []byte("idx_cat")     // category -> sub-bucket of inverted keys
)
