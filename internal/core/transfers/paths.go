package transfers

import (
	"fmt"
	"path"
	"strings"
)

// PathTranslator maps paths of the notebook host onto paths of the host collection.
type PathTranslator struct {
	CollectionID   string
	PosixBase      string
	CollectionBase string
}

// Enabled reports whether any base path is configured.
func (p *PathTranslator) Enabled() bool {
	return p != nil && (p.PosixBase != "" || p.CollectionBase != "")
}

// Translate rewrites one host path. Paths are cleaned before matching, so ".."
// segments cannot leave either base path.
func (p *PathTranslator) Translate(hostPath string) (string, error) {
	rel := path.Clean(hostPath)
	if p.PosixBase != "" {
		base := path.Clean(p.PosixBase)
		if !within(rel, base) {
			return "", fmt.Errorf("%w: %s is not under %s", ErrOutsideSharePath, hostPath, p.PosixBase)
		}
		rel = strings.TrimPrefix(rel, base)
	}

	root := "/"
	if p.CollectionBase != "" {
		root = path.Clean(p.CollectionBase)
	}
	translated := path.Join(root, rel)
	if !within(translated, root) {
		return "", fmt.Errorf("%w: %s leaves %s", ErrOutsideSharePath, hostPath, root)
	}
	if strings.HasSuffix(hostPath, "/") && !strings.HasSuffix(translated, "/") {
		translated += "/"
	}
	return translated, nil
}

// within reports whether the cleaned path p is base or below it.
func within(p, base string) bool {
	if base == "/" {
		return strings.HasPrefix(p, "/")
	}
	return p == base || strings.HasPrefix(p, base+"/")
}

// Apply rewrites the host side paths of req in place.
func (p *PathTranslator) Apply(req *Request) error {
	if !p.Enabled() {
		return nil
	}

	source := req.SourceEndpoint == p.CollectionID
	destination := req.DestinationEndpoint == p.CollectionID
	if p.CollectionID == "" || (!source && !destination) {
		return ErrNoHostCollection
	}

	for i := range req.Items {
		item := &req.Items[i]
		if source {
			translated, err := p.Translate(item.SourcePath)
			if err != nil {
				return err
			}
			item.SourcePath = translated
		}
		if destination {
			translated, err := p.Translate(item.DestinationPath)
			if err != nil {
				return err
			}
			item.DestinationPath = translated
		}
	}
	return nil
}
