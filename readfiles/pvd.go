package readfiles

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mitchellh/go-homedir"

	"github.com/notargets/vtkplot/types"
)

type collection struct {
	DataSets []dataSetEntry `xml:"DataSet"`
}

type dataSetEntry struct {
	Timestep string `xml:"timestep,attr"`
	Group    string `xml:"group,attr"`
	Part     string `xml:"part,attr"`
	File     string `xml:"file,attr"`
}

// DataSet is one entry of a time series collection. Time keeps the attribute
// text as written so output names match the solver's own labels.
type DataSet struct {
	Time      string
	TimeValue float64
	Group     string
	Part      int
	File      string // Resolved against the directory of the collection file
}

type Collection struct {
	Path     string
	DataSets []DataSet
}

// ReadPVD reads a ParaView collection index, datasets are kept in document order
func ReadPVD(path string) (c *Collection, err error) {
	var (
		fileName string
		content  []byte
		vf       vtkFile
	)
	if fileName, err = homedir.Expand(path); err != nil {
		return nil, &types.FileFormatError{Path: path, Err: err}
	}
	if content, err = os.ReadFile(fileName); err != nil {
		return nil, &types.FileFormatError{Path: fileName, Err: err}
	}
	if err = xml.Unmarshal(content, &vf); err != nil {
		return nil, &types.FileFormatError{Path: fileName, Err: err}
	}
	if vf.Type != "Collection" || vf.Collection == nil {
		return nil, types.NewFileFormatError(fileName, "expected a Collection file, found type %q", vf.Type)
	}
	dir := filepath.Dir(fileName)
	c = &Collection{Path: fileName}
	for i, ds := range vf.Collection.DataSets {
		if ds.File == "" {
			return nil, types.NewFileFormatError(fileName, "DataSet %d has no file attribute", i)
		}
		entry := DataSet{
			Time:  ds.Timestep,
			Group: ds.Group,
			File:  ds.File,
		}
		if !filepath.IsAbs(entry.File) {
			entry.File = filepath.Join(dir, entry.File)
		}
		if ds.Timestep != "" {
			if entry.TimeValue, err = strconv.ParseFloat(ds.Timestep, 64); err != nil {
				return nil, types.NewFileFormatError(fileName, "DataSet %d: timestep %q is not a number", i, ds.Timestep)
			}
		}
		if ds.Part != "" {
			if entry.Part, err = strconv.Atoi(ds.Part); err != nil {
				return nil, types.NewFileFormatError(fileName, "DataSet %d: part %q is not an integer", i, ds.Part)
			}
		}
		c.DataSets = append(c.DataSets, entry)
	}
	return
}

func (c *Collection) Len() int { return len(c.DataSets) }

// Load reads the mesh data of the i'th dataset
func (c *Collection) Load(i int) (*types.MeshData, error) {
	return ReadVTKData(c.DataSets[i].File)
}
