package config

// AddRecentFile records path as the most recently attached workbook.
// An existing entry moves to the front; the list is capped at MaxRecentFiles.
func (c *Config) AddRecentFile(path string) {
	if path == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	files := []string{path}
	for _, f := range c.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if len(files) > MaxRecentFiles {
		files = files[:MaxRecentFiles]
	}
	c.RecentFiles = files
}

// RemoveRecentFile forgets path.
// Returns true if the path was found and removed, false otherwise.
func (c *Config) RemoveRecentFile(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, f := range c.RecentFiles {
		if f == path {
			c.RecentFiles = append(c.RecentFiles[:i], c.RecentFiles[i+1:]...)
			return true
		}
	}
	return false
}

// GetRecentFiles returns a copy of the recent files, newest first.
func (c *Config) GetRecentFiles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	files := make([]string, len(c.RecentFiles))
	copy(files, c.RecentFiles)
	return files
}
