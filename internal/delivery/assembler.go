package delivery

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"beatstore/internal/entitlement"
	"beatstore/internal/logging"
	"beatstore/internal/media"
)

// Attachment is one file attached to the delivery email. Exactly one of
// Path or Body is set.
type Attachment struct {
	Name string
	Path string
	Body []byte
}

// Package is the assembled deliverable set for one fulfillment event.
// Delivered lists display names for the ledger, text documents included.
// MediaRefs lists the surviving media references in entitlement order.
// Warnings records recoverable assembly problems for the operator log.
type Package struct {
	Attachments []Attachment
	Delivered   []string
	MediaRefs   []string
	Warnings    []string
	Archived    bool
}

// Documents supplies the generated text documents once the surviving media
// references are known, so download links only point at files that ship.
type Documents func(survivingRefs []string) (summary, agreement []byte)

type packagedFile struct {
	Category media.Category
	Ref      string
	Path     string
}

// Assembler builds delivery packages from resolved entitlements.
type Assembler struct {
	library    *media.Library
	archiveDir string
	logger     *slog.Logger
}

// NewAssembler constructs an Assembler that probes media through library
// and stages archive bundles under archiveDir.
func NewAssembler(library *media.Library, archiveDir string, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{
		library:    library,
		archiveDir: archiveDir,
		logger:     logging.WithComponent(logger, "delivery"),
	}
}

// Assemble probes every entitled reference and packages the survivors.
// Missing files are dropped with a warning, never a failure; a package with
// only the text documents is still a valid package. When the entitlement
// includes stems or more than two files survive, the survivors are bundled
// into a single archive. Archive failure falls back to individual
// attachments.
func (a *Assembler) Assemble(ent *entitlement.Entitlement, docs Documents) (*Package, error) {
	pkg := &Package{}

	var survivors []packagedFile
	stemsGranted := false
	for _, item := range ent.Items {
		if item.Category == media.CategoryStem {
			stemsGranted = true
		}
		path, err := a.library.Resolve(item.MediaRef)
		if err != nil || !a.library.Exists(item.MediaRef) {
			warning := fmt.Sprintf("media reference %s (%s) not found, skipping", item.MediaRef, item.Category)
			pkg.Warnings = append(pkg.Warnings, warning)
			a.logger.Warn("media file missing",
				logging.String("ref", item.MediaRef),
				logging.String("category", string(item.Category)))
			continue
		}
		survivors = append(survivors, packagedFile{Category: item.Category, Ref: item.MediaRef, Path: path})
		pkg.MediaRefs = append(pkg.MediaRefs, item.MediaRef)
	}

	summary, agreement := docs(pkg.MediaRefs)
	pkg.Attachments = append(pkg.Attachments,
		Attachment{Name: "license.txt", Body: summary},
		Attachment{Name: "contract.txt", Body: agreement},
	)
	pkg.Delivered = append(pkg.Delivered, "license.txt", "contract.txt")

	if len(survivors) == 0 {
		return pkg, nil
	}

	if stemsGranted || len(survivors) > 2 {
		err := a.attachArchive(pkg, ent, survivors)
		if err == nil {
			return pkg, nil
		}
		pkg.Warnings = append(pkg.Warnings, fmt.Sprintf("archive bundling failed, attaching files individually: %v", err))
		a.logger.Warn("archive bundling failed, falling back to individual attachments",
			logging.Error(err))
	}

	a.attachIndividually(pkg, survivors)
	return pkg, nil
}

func (a *Assembler) attachArchive(pkg *Package, ent *entitlement.Entitlement, survivors []packagedFile) error {
	if err := os.MkdirAll(a.archiveDir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	name := archiveName(ent)
	target := filepath.Join(a.archiveDir, fmt.Sprintf("%d_%s", time.Now().UnixMilli(), name))
	if err := writeArchive(target, survivors); err != nil {
		_ = os.Remove(target)
		return err
	}

	pkg.Attachments = append(pkg.Attachments, Attachment{Name: name, Path: target})
	pkg.Delivered = append(pkg.Delivered, name)
	pkg.Archived = true
	a.logger.Info("delivery archived",
		logging.String("archive", name),
		logging.Int("files", len(survivors)))
	return nil
}

func (a *Assembler) attachIndividually(pkg *Package, survivors []packagedFile) {
	taken := map[string]bool{}
	for _, file := range survivors {
		name := memberName(taken, file)
		taken[name] = true
		pkg.Attachments = append(pkg.Attachments, Attachment{Name: name, Path: file.Path})
		pkg.Delivered = append(pkg.Delivered, name)
	}
}

func archiveName(ent *entitlement.Entitlement) string {
	return fmt.Sprintf("%s_%s.zip", slug(ent.Product.ID), slug(ent.License.ID))
}

func slug(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
