package drive

// WebURL returns the browser link for a Drive file id.
func WebURL(fileID string) string {
	if fileID == "" {
		return ""
	}
	return "https://drive.google.com/file/d/" + fileID + "/view"
}
