package language

// Config is the static configuration of one supported language.
type Config struct {
	Tag           Tag
	DisplayName   string
	Icon          string // path under the static asset root
	FileExtension string
	Boilerplate   string
	// Highlighter names the chroma lexer used to highlight sources of this
	// language. It is resolved lazily by Lexer.
	Highlighter string
}

// Filename returns the name shown above the editing surface.
func (c Config) Filename() string {
	return "main" + c.FileExtension
}

var registry = [numTags]Config{
	Python: {
		Tag:           Python,
		DisplayName:   "Python",
		Icon:          "icons/python.svg",
		FileExtension: ".py",
		Boilerplate:   pythonSample,
		Highlighter:   "python",
	},
	JavaScript: {
		Tag:           JavaScript,
		DisplayName:   "JavaScript",
		Icon:          "icons/javascript.svg",
		FileExtension: ".js",
		Boilerplate:   javascriptSample,
		Highlighter:   "javascript",
	},
	Go: {
		Tag:           Go,
		DisplayName:   "Go",
		Icon:          "icons/go.svg",
		FileExtension: ".go",
		Boilerplate:   goSample,
		Highlighter:   "go",
	},
	PHP: {
		Tag:           PHP,
		DisplayName:   "PHP",
		Icon:          "icons/php.svg",
		FileExtension: ".php",
		Boilerplate:   phpSample,
		Highlighter:   "php",
	},
	Rust: {
		Tag:           Rust,
		DisplayName:   "Rust",
		Icon:          "icons/rust.svg",
		FileExtension: ".rs",
		Boilerplate:   rustSample,
		Highlighter:   "rust",
	},
	CPP: {
		Tag:           CPP,
		DisplayName:   "C++",
		Icon:          "icons/cpp.svg",
		FileExtension: ".cpp",
		Boilerplate:   cppSample,
		Highlighter:   "cpp",
	},
	Swift: {
		Tag:           Swift,
		DisplayName:   "Swift",
		Icon:          "icons/swift.svg",
		FileExtension: ".swift",
		Boilerplate:   swiftSample,
		Highlighter:   "swift",
	},
}

// Lookup returns the configuration for a tag. It panics on a tag outside the
// enumeration; use Get for values that come from user input.
func Lookup(t Tag) Config {
	if !t.Valid() {
		panic("language: lookup of invalid tag " + t.String())
	}
	return registry[t]
}

// Get returns the configuration for a tag and whether the tag is supported.
func Get(t Tag) (Config, bool) {
	if !t.Valid() {
		return Config{}, false
	}
	return registry[t], true
}

// All returns every language configuration in display order.
func All() []Config {
	out := make([]Config, len(registry))
	copy(out, registry[:])
	return out
}
