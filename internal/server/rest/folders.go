package rest

import (
	"net/http"
)

const msgFolderNotFound = "Folder not found"

// folderRequest accepts both {"folder":{"name":..}} and {"name":..}.
type folderRequest struct {
	Name   string `json:"name"`
	Folder *struct {
		Name string `json:"name"`
	} `json:"folder"`
}

func (f folderRequest) name() string {
	if f.Folder != nil {
		return f.Folder.Name
	}
	return f.Name
}

func (s *Server) listFolders(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())

	folders, err := s.folders.List(r.Context(), user.ID)
	if err != nil {
		return err
	}

	views := make([]folderWithPdfsView, 0, len(folders))
	for _, f := range folders {
		views = append(views, newFolderWithPdfsView(f))
	}
	writeJSON(w, http.StatusOK, views)
	return nil
}

func (s *Server) createFolder(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())

	var req folderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	f, err := s.folders.Create(r.Context(), user.ID, req.name())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, newFolderView(f))
	return nil
}

func (s *Server) renameFolder(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	id, err := pathID(r, msgFolderNotFound)
	if err != nil {
		return err
	}

	var req folderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	f, err := s.folders.Rename(r.Context(), user.ID, id, req.name())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, newFolderView(f))
	return nil
}

func (s *Server) deleteFolder(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	id, err := pathID(r, msgFolderNotFound)
	if err != nil {
		return err
	}

	if err := s.folders.Delete(r.Context(), user.ID, id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) folderPdfs(w http.ResponseWriter, r *http.Request) error {
	user := currentUser(r.Context())
	id, err := pathID(r, msgFolderNotFound)
	if err != nil {
		return err
	}

	f, err := s.folders.Pdfs(r.Context(), user.ID, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pdfs":   newPdfViews(f.Pdfs),
		"folder": newFolderView(f.Folder),
	})
	return nil
}
