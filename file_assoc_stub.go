//go:build !windows && !android

package main

import "errors"

var errFileAssocUnsupported = errors.New("file associations are only managed on Windows; use the .desktop file's MimeType on Linux")

func (a *App) CheckFileAssociations() (FileAssociationStatus, error) {
	return FileAssociationStatus{}, errFileAssocUnsupported
}

func (a *App) SetFileAssociationsEnabled(enable bool) error {
	return errFileAssocUnsupported
}
