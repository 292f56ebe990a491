package addons

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// wowColorCodeRegex matches WoW color escape sequences like |cffRRGGBB and |r
var wowColorCodeRegex = regexp.MustCompile(`\|c[0-9a-fA-F]{8}|\|r`)

// TOCInfo contains parsed information from a .toc file
type TOCInfo struct {
	Title        string
	Version      string
	WowiID       string
	Dependencies []string
}

// stripWoWColorCodes removes WoW color escape sequences from a string
func stripWoWColorCodes(s string) string {
	return wowColorCodeRegex.ReplaceAllString(s, "")
}

// ParseTOC parses a .toc file and extracts metadata
func ParseTOC(tocPath string) (*TOCInfo, error) {
	file, err := os.Open(tocPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	info := &TOCInfo{}
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// TOC metadata lines start with ##
		if !strings.HasPrefix(line, "##") {
			continue
		}

		line = strings.TrimSpace(strings.TrimPrefix(line, "##"))

		// Split on first colon
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch {
		case key == "title":
			info.Title = stripWoWColorCodes(value)
		case key == "version":
			info.Version = value
		case key == "x-wowi-id":
			info.WowiID = value
		case key == "requireddeps" || strings.HasPrefix(key, "dep"):
			for _, dep := range strings.Split(value, ",") {
				dep = strings.TrimSpace(dep)
				if dep == "" || seen[dep] {
					continue
				}
				seen[dep] = true
				info.Dependencies = append(info.Dependencies, dep)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return info, nil
}

// FindTOCFile finds the .toc file of an addon folder.
// A toc named after the folder wins over any other toc in it.
func FindTOCFile(addonDir string) (string, error) {
	entries, err := os.ReadDir(addonDir)
	if err != nil {
		return "", err
	}

	want := filepath.Base(addonDir) + ".toc"
	var fallback string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".toc") {
			continue
		}
		if strings.EqualFold(entry.Name(), want) {
			return filepath.Join(addonDir, entry.Name()), nil
		}
		if fallback == "" {
			fallback = filepath.Join(addonDir, entry.Name())
		}
	}

	if fallback == "" {
		return "", os.ErrNotExist
	}
	return fallback, nil
}

// Scan builds one addon per folder of dir that carries a .toc file.
// Hidden folders and folders without a toc are skipped.
func Scan(dir string) (Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Collection{}, nil
		}
		return nil, err
	}

	var addons Collection
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		tocPath, err := FindTOCFile(path)
		if err != nil {
			continue
		}

		info, err := ParseTOC(tocPath)
		if err != nil {
			return nil, err
		}

		title := info.Title
		if title == "" {
			title = entry.Name()
		}
		addons = append(addons, NewAddon(title, info.Version, path, info.WowiID, info.Dependencies))
	}

	return addons, nil
}
