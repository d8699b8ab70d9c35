package domain

// Tag is a repository tag and the commit it points at
type Tag struct {
	Name string `json:"name"`
	SHA  string `json:"sha"`
}

// TagResolution pairs a repository with its selected release tag.
// A nil Tag means the repository has no official release tag; that is a
// normal outcome, not an error.
type TagResolution struct {
	Repo *RepositoryRef
	Tag  *Tag
}

// HasTag reports whether a release tag was selected
func (r *TagResolution) HasTag() bool {
	return r.Tag != nil
}
