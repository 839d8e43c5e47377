package driver

import (
	"fmt"

	"github.com/dargueta/mpfs"
	"github.com/dargueta/mpfs/literal"
)

// Driver is the run-time registry: a flat mapping of file names to containers.
// It's meant for single-threaded use; callers sharing a Driver between
// goroutines must provide their own locking.
type Driver struct {
	containers map[string]mpfs.Container
	// names holds the keys of `containers` in insertion order.
	names   []string
	mounted bool
}

// ManifestEntry describes one file in the registry without decoding it.
type ManifestEntry struct {
	Name        string `csv:"name"`
	Size        int64  `csv:"size"`
	Format      string `csv:"format"`
	EncodedSize int    `csv:"encoded_size"`
}

// New creates an empty, unmounted driver.
func New() *Driver {
	return &Driver{containers: make(map[string]mpfs.Container)}
}

// NewFromEntries creates a driver and mounts `entries` on it.
func NewFromEntries(entries []mpfs.Entry) (*Driver, error) {
	driver := New()
	if err := driver.Mount(entries); err != nil {
		return nil, err
	}
	return driver, nil
}

// Mount replaces the entire registry with `entries`, keeping their order. If
// any entry is invalid the registry is left untouched.
func (driver *Driver) Mount(entries []mpfs.Entry) error {
	containers := make(map[string]mpfs.Container, len(entries))
	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if _, exists := containers[entry.Name]; exists {
			return mpfs.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("can't mount: duplicate file name %q", entry.Name))
		}
		if !entry.Container.Format.IsValid() {
			return mpfs.ErrUnknownFormat.WithMessage(
				fmt.Sprintf(
					"can't mount %q: unknown file format %d",
					entry.Name,
					int(entry.Container.Format),
				),
			)
		}
		if entry.Container.Size < 0 {
			return mpfs.ErrCorruptData.WithMessage(
				fmt.Sprintf(
					"can't mount %q: invalid declared size %d",
					entry.Name,
					entry.Container.Size,
				),
			)
		}
		containers[entry.Name] = entry.Container
		names = append(names, entry.Name)
	}

	driver.containers = containers
	driver.names = names
	driver.mounted = true
	return nil
}

// MountLiteral parses a registry literal as produced by
// [literal.RenderRegistry] and mounts its entries.
func (driver *Driver) MountLiteral(text []byte) error {
	_, entries, err := literal.ParseRegistry(text)
	if err != nil {
		return err
	}
	return driver.Mount(entries)
}

// Unmount removes every entry. Files that are already open keep working, since
// they hold their own copy of the container.
func (driver *Driver) Unmount() error {
	if !driver.mounted {
		return mpfs.ErrState.WithMessage("registry isn't mounted")
	}
	driver.containers = make(map[string]mpfs.Container)
	driver.names = nil
	driver.mounted = false
	return nil
}

// Mounted returns true if the registry is currently mounted.
func (driver *Driver) Mounted() bool {
	return driver.mounted
}

func (driver *Driver) lookup(name string) (mpfs.Container, error) {
	container, ok := driver.containers[name]
	if !ok {
		return mpfs.Container{}, mpfs.ErrNotFound.WithMessage(
			fmt.Sprintf("no such file: %q", name))
	}
	return container, nil
}

// Open returns a new reader positioned at the start of the named file. Every
// call returns an independent reader.
func (driver *Driver) Open(name string) (*File, error) {
	container, err := driver.lookup(name)
	if err != nil {
		return nil, err
	}
	return newFile(name, container)
}

// WithOpen opens the named file, passes it to `fn`, and closes it afterward
// regardless of what `fn` returns. The error from `fn` takes precedence over
// an error from closing the file.
func (driver *Driver) WithOpen(name string, fn func(file *File) error) error {
	file, err := driver.Open(name)
	if err != nil {
		return err
	}

	fnErr := fn(file)
	// `fn` is allowed to close the file itself.
	if !file.Closed() {
		if closeErr := file.Close(); closeErr != nil && fnErr == nil {
			return closeErr
		}
	}
	return fnErr
}

// ReadFile returns the full decoded contents of the named file.
func (driver *Driver) ReadFile(name string) ([]byte, error) {
	var data []byte
	err := driver.WithOpen(name, func(file *File) error {
		var readErr error
		data, readErr = file.ReadAll()
		return readErr
	})
	return data, err
}

// Remove deletes the named entry from the registry. Readers already open on it
// are unaffected.
func (driver *Driver) Remove(name string) error {
	if _, err := driver.lookup(name); err != nil {
		return err
	}

	delete(driver.containers, name)
	for i, existing := range driver.names {
		if existing == name {
			driver.names = append(driver.names[:i], driver.names[i+1:]...)
			break
		}
	}
	return nil
}

// ListDir returns the names of all files in the order they were mounted.
func (driver *Driver) ListDir() []string {
	names := make([]string, len(driver.names))
	copy(names, driver.names)
	return names
}

func (driver *Driver) Exists(name string) bool {
	_, ok := driver.containers[name]
	return ok
}

// GetSize returns the declared size of the named file. This never decodes
// anything.
func (driver *Driver) GetSize(name string) (int64, error) {
	container, err := driver.lookup(name)
	if err != nil {
		return 0, err
	}
	return container.Size, nil
}

// Manifest describes every file in the registry, in mount order.
func (driver *Driver) Manifest() []ManifestEntry {
	manifest := make([]ManifestEntry, len(driver.names))
	for i, name := range driver.names {
		container := driver.containers[name]
		manifest[i] = ManifestEntry{
			Name:        name,
			Size:        container.Size,
			Format:      container.Format.String(),
			EncodedSize: container.EncodedSize(),
		}
	}
	return manifest
}
