package artifact

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/boattime/portfolio/pkg/errors"
)

// ArtifactType is the media type for published dashboard sets.
const ArtifactType = "application/vnd.portfolio.dashboard"

// URIScheme marks an output target as an OCI registry reference.
const URIScheme = "oci://"

// OCISinkOptions configures an OCISink.
type OCISinkOptions struct {
	// Registry is the registry host, e.g. "ghcr.io" or "localhost:5000".
	Registry string
	// Repository is the repository path within the registry.
	Repository string
	// Tag is the tag each published set is pushed under.
	Tag string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// OCISink pushes each artifact set to an OCI registry via ORAS. The set's
// two documents become a single gzipped layer; the manifest carries the
// cycle ID and generation timestamp as annotations.
type OCISink struct {
	opts OCISinkOptions
	ref  string
}

// NewOCISink validates the target reference and returns the sink.
func NewOCISink(opts OCISinkOptions) (*OCISink, error) {
	if opts.Tag == "" {
		opts.Tag = "latest"
	}
	refString := fmt.Sprintf("%s/%s:%s", stripProtocol(opts.Registry), opts.Repository, opts.Tag)
	if _, err := reference.ParseNormalizedNamed(refString); err != nil {
		return nil, errors.Wrap(errors.ErrCodePublish, "invalid registry reference "+refString, err)
	}
	return &OCISink{opts: opts, ref: refString}, nil
}

func (s *OCISink) Name() string { return "oci:" + s.ref }

func (s *OCISink) Publish(ctx context.Context, set Set) error {
	stageDir, err := os.MkdirTemp("", "portfolio-push-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodePublish, "creating staging directory", err)
	}
	defer os.RemoveAll(stageDir)

	for name, data := range map[string][]byte{
		HTMLFileName: set.HTML,
		TextFileName: set.Text,
	} {
		if err := os.WriteFile(filepath.Join(stageDir, name), data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodePublish, "staging "+name, err)
		}
	}

	fs, err := file.New(stageDir)
	if err != nil {
		return errors.Wrap(errors.ErrCodePublish, "creating file store", err)
	}
	defer fs.Close()
	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, stageDir)
	if err != nil {
		return errors.Wrap(errors.ErrCodePublish, "adding documents to store", err)
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType,
		oras.PackManifestOptions{
			Layers: []ociv1.Descriptor{layerDesc},
			ManifestAnnotations: map[string]string{
				ociv1.AnnotationCreated:          set.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
				"vnd.portfolio.dashboard.cycle":  fmt.Sprintf("%d", set.CycleID),
				"vnd.portfolio.dashboard.set-id": set.ID.String(),
			},
		})
	if err != nil {
		return errors.Wrap(errors.ErrCodePublish, "packing manifest", err)
	}

	if err := fs.Tag(ctx, manifestDesc, s.opts.Tag); err != nil {
		return errors.Wrap(errors.ErrCodePublish, "tagging local manifest", err)
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", stripProtocol(s.opts.Registry), s.opts.Repository))
	if err != nil {
		return errors.Wrap(errors.ErrCodePublish, "initializing repository", err)
	}
	repo.PlainHTTP = s.opts.PlainHTTP
	repo.Client = authClient(s.opts.PlainHTTP, s.opts.InsecureTLS)

	desc, err := oras.Copy(ctx, fs, s.opts.Tag, repo, s.opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return errors.Wrap(errors.ErrCodePublish, "pushing to "+s.ref, err)
	}

	slog.Info("artifact set pushed",
		"reference", s.ref, "digest", desc.Digest.String(), "cycle", set.CycleID)
	return nil
}

// Target is a parsed publish destination: either an OCI registry
// reference or a local directory path.
type Target struct {
	IsOCI      bool
	Registry   string
	Repository string
	Tag        string
	LocalPath  string
}

// ParseTarget interprets an output target string. Strings with the oci://
// scheme resolve to registry components; everything else is a local
// directory. A missing tag is left empty for the caller to default.
func ParseTarget(target string) (*Target, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Target{LocalPath: target}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePublish, "invalid OCI target", err)
	}

	t := &Target{
		IsOCI:      true,
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		t.Tag = tagged.Tag()
	}
	return t, nil
}

// NewSink builds the sink matching a parsed target.
func NewSink(t *Target) (Sink, error) {
	if !t.IsOCI {
		return NewDirSink(t.LocalPath)
	}
	return NewOCISink(OCISinkOptions{
		Registry:   t.Registry,
		Repository: t.Repository,
		Tag:        t.Tag,
	})
}

func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	return strings.TrimPrefix(registry, "http://")
}

func authClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
