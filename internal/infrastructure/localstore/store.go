// Package localstore guarda los borradores del asistente en disco: un archivo
// JSON por slot con escritura atómica, el reemplazo server-side del
// localStorage del shell original.
package localstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore almacén de slots sobre un directorio.
type FileStore struct {
	dir string
}

// NewFileStore crea el directorio si hace falta y devuelve el almacén.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de borradores: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Put escribe el slot con rename atómico: nunca queda un archivo a medias
// aunque el proceso muera durante la escritura.
func (s *FileStore) Put(key string, data []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("escribir borrador: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publicar borrador: %w", err)
	}
	return nil
}

// Get lee el slot. Devuelve (nil, nil) si no existe.
func (s *FileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer borrador: %w", err)
	}
	return data, nil
}

// Delete elimina el slot; borrar lo inexistente no es error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("eliminar borrador: %w", err)
	}
	return nil
}

// path arma la ruta del slot saneando la clave: las claves son IDs de
// usuario, pero un separador colado no debe salir del directorio.
func (s *FileStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ':':
			return '_'
		}
		return r
	}, key)
	return filepath.Join(s.dir, safe+".json")
}
