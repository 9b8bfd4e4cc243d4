package contextpack

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Context file names recognized inside a context directory. All are
// optional per layer
const (
	routingFileName   = "routing.yaml"
	peopleFileName    = "people.yaml"
	companiesFileName = "companies.yaml"
	projectsFileName  = "projects.yaml"
)

// envPrefix selects the environment variables that overlay routing
// settings after all file layers are applied
const envPrefix = "PROTOKOLL_"

//go:embed defaults/routing.yaml
var defaultRouting []byte

// Load reads context layers from dirs in most-general-first order and
// compiles them into a Pack. Routing files deep-merge through koanf, so
// a nearer layer can override a single routing field; entity files merge
// per id, field by field. Missing dirs and missing files are skipped
func Load(dirs ...string) (*Pack, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultRouting), kyaml.Parser()); err != nil {
		return nil, fmt.Errorf("contextpack: parse embedded routing defaults: %w", err)
	}

	var (
		people    []rawPerson
		companies []rawCompany
		projects  []rawProject
		sources   []string
	)

	for _, dir := range dirs {
		used := false

		b, ok, err := readLayerFile(filepath.Join(dir, routingFileName))
		if err != nil {
			return nil, err
		}
		if ok {
			if err := k.Load(rawbytes.Provider(b), kyaml.Parser()); err != nil {
				return nil, fmt.Errorf("contextpack: parse %s: %w", filepath.Join(dir, routingFileName), err)
			}
			used = true
		}

		var pf peopleFile
		ok, err = readYAMLFile(filepath.Join(dir, peopleFileName), &pf)
		if err != nil {
			return nil, err
		}
		if ok {
			people = mergePeople(people, pf.People)
			used = true
		}

		var cf companiesFile
		ok, err = readYAMLFile(filepath.Join(dir, companiesFileName), &cf)
		if err != nil {
			return nil, err
		}
		if ok {
			companies = mergeCompanies(companies, cf.Companies)
			used = true
		}

		var prf projectsFile
		ok, err = readYAMLFile(filepath.Join(dir, projectsFileName), &prf)
		if err != nil {
			return nil, err
		}
		if ok {
			projects = mergeProjects(projects, prf.Projects)
			used = true
		}

		if used {
			sources = append(sources, dir)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("contextpack: overlay environment: %w", err)
	}

	var rf routingFile
	if err := k.Unmarshal("", &rf); err != nil {
		return nil, fmt.Errorf("contextpack: unmarshal routing: %w", err)
	}
	raw := rf.Routing
	applyRoutingDefaults(&raw)

	if err := validatePack(raw, people, companies, projects); err != nil {
		return nil, err
	}
	return compile(raw, people, companies, projects, sources), nil
}

// envKey maps a recognized PROTOKOLL_* variable onto its routing key.
// Unrecognized variables are dropped so unrelated PROTOKOLL_ settings
// (context dir, service config) cannot leak into routing
func envKey(name string) string {
	switch name {
	case "PROTOKOLL_DEFAULT_PATH":
		return "routing.default.path"
	case "PROTOKOLL_DEFAULT_STRUCTURE":
		return "routing.default.structure"
	case "PROTOKOLL_CONFLICT_RESOLUTION":
		return "routing.conflict_resolution"
	default:
		return ""
	}
}

func applyRoutingDefaults(r *rawRouting) {
	if r.Default.Structure == "" {
		r.Default.Structure = "none"
	}
	if r.ConflictResolution == "" {
		r.ConflictResolution = "ask"
	}
}

// readLayerFile returns the file contents, or ok=false when the file
// does not exist. Directories masquerading as files are an error
func readLayerFile(path string) ([]byte, bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("contextpack: stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, false, fmt.Errorf("contextpack: %s: %w", path, fs.ErrInvalid)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("contextpack: read %s: %w", path, err)
	}
	return b, true, nil
}

// readYAMLFile unmarshals one entity file into out via its own koanf
// instance, keeping entity lists away from the routing merge tree
func readYAMLFile(path string, out any) (bool, error) {
	b, ok, err := readLayerFile(path)
	if err != nil || !ok {
		return ok, err
	}
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(b), kyaml.Parser()); err != nil {
		return false, fmt.Errorf("contextpack: parse %s: %w", path, err)
	}
	if err := k.Unmarshal("", out); err != nil {
		return false, fmt.Errorf("contextpack: unmarshal %s: %w", path, err)
	}
	return true, nil
}
