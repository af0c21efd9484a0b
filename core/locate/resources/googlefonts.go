package resources

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/font"
	"github.com/npillmayer/weft/core/font/fontregistry"
	xfont "golang.org/x/image/font"
)

// GoogleFontInfo is the directory record of one font family at the
// Google webfont service.
type GoogleFontInfo struct {
	Family   string            `json:"family"`
	Version  string            `json:"version"`
	Variants []string          `json:"variants"`
	Subsets  []string          `json:"subsets"`
	Files    map[string]string `json:"files"`
}

// Descriptor converts a directory record to a font descriptor.
func (fi GoogleFontInfo) Descriptor() font.Descriptor {
	return font.Descriptor{
		Family:   fi.Family,
		Variants: fi.Variants,
	}
}

type googleFontsList struct {
	Items []GoogleFontInfo `json:"items"`
}

var loadGoogleFontsDir sync.Once
var googleFontsDirectory googleFontsList
var googleFontsLoadError error
var googleFontsAPI string = `https://www.googleapis.com/webfonts/v1/webfonts?`

// SetupGoogleFontsDirectory downloads the font directory of the Google
// webfont service, once. The API key is taken from the global
// configuration, key 'google-api-key', or from the GOOGLE_API_KEY
// environment variable.
func SetupGoogleFontsDirectory() error {
	loadGoogleFontsDir.Do(func() {
		apikey := gconf.GetString("google-api-key")
		if apikey == "" {
			apikey = os.Getenv("GOOGLE_API_KEY")
		}
		if apikey == "" {
			err := errors.New("Google API key not set")
			tracer().Errorf(err.Error())
			googleFontsLoadError = core.WrapError(err, core.EMISSING,
				`Google Fonts API-key must be set in global configuration or as GOOGLE_API_KEY in environment;
      please refer to https://developers.google.com/fonts/docs/developer_api`)
			return
		}
		values := url.Values{
			"sort": []string{"alpha"},
			"key":  []string{apikey},
		}
		resp, err := http.Get(googleFontsAPI + values.Encode())
		if err != nil {
			tracer().Errorf("Google Fonts API request not OK: %s", err.Error())
			googleFontsLoadError = core.WrapError(err, core.ECONNECTION,
				"could not get fonts-directory from Google font service")
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			tracer().Errorf("Google Fonts API request not OK: %v", resp.Status)
			err := core.Error(resp.StatusCode, "response: %v", resp.Status)
			googleFontsLoadError = core.WrapError(err, core.ECONNECTION,
				"could not get fonts-directory from Google font service")
			return
		}
		dec := json.NewDecoder(resp.Body)
		err = dec.Decode(&googleFontsDirectory)
		if err != nil {
			googleFontsLoadError = core.WrapError(err, core.EINVALID,
				"could not decode fonts-list from Google font service")
		}
	})
	return googleFontsLoadError
}

// FindGoogleFont searches the Google font directory for families matching
// a given name pattern, with at least one variant fitting style and weight.
//
// If not already done, the directory will be downloaded from Google.
func FindGoogleFont(pattern string, style xfont.Style, weight xfont.Weight) ([]GoogleFontInfo, error) {
	var fonts []GoogleFontInfo
	if err := SetupGoogleFontsDirectory(); err != nil {
		return fonts, err
	}
	r, err := regexp.Compile(strings.ToLower(pattern))
	if err != nil {
		return fonts, core.WrapError(err, core.EINVALID, "invalid font name pattern: %s", pattern)
	}
	for _, finfo := range googleFontsDirectory.Items {
		if !r.MatchString(strings.ToLower(finfo.Family)) {
			continue
		}
		for _, v := range finfo.Variants {
			if fontregistry.MatchStyle(v, style) > fontregistry.LowConfidence &&
				fontregistry.MatchWeight(v, weight) > fontregistry.LowConfidence {
				fonts = append(fonts, finfo)
				break
			}
		}
	}
	if len(fonts) == 0 {
		return fonts, core.Error(core.EMISSING, "no Google font matches %s", pattern)
	}
	return fonts, nil
}

// CacheGoogleFont downloads a variant of a Google font to the user's
// cache directory, if not cached already, and returns the file path.
func CacheGoogleFont(fi GoogleFontInfo, variant string) (string, error) {
	fileurl, ok := fi.Files[variant]
	if !ok {
		return "", core.Error(core.EMISSING, "font %s has no variant %s", fi.Family, variant)
	}
	cachedir, err := CacheDirPath("fonts")
	if err != nil {
		return "", err
	}
	ext := path.Ext(fileurl)
	filename := strings.ReplaceAll(strings.ToLower(fi.Family), " ", "_")
	filename += "-" + variant + ext
	filepath := path.Join(cachedir, filename)
	if _, err := os.Stat(filepath); err == nil {
		tracer().Debugf("font %s already cached", filename)
		return filepath, nil
	}
	if err = DownloadCachedFile(filepath, fileurl); err != nil {
		return "", core.WrapError(err, core.ECONNECTION,
			"could not download font %s", fi.Family)
	}
	return filepath, nil
}

// ---------------------------------------------------------------------------

// ListGoogleFonts produces a listing of available fonts from the Google webfont
// service, with font-family names matching a given pattern.
//
// If not already done, the list of fonts will be downloaded from Google.
func ListGoogleFonts(pattern string) {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	if err := SetupGoogleFontsDirectory(); err != nil {
		tracer().Errorf(core.UserMessage(err))
	} else {
		listGoogleFonts(googleFontsDirectory, pattern)
	}
	tracer().SetTraceLevel(level)
}

func listGoogleFonts(list googleFontsList, pattern string) {
	r, err := regexp.Compile(pattern)
	if err != nil {
		tracer().Errorf("cannot list Google fonts: invalid pattern: %v", err)
		return
	}
	tracer().Infof("%d fonts in list", len(list.Items))
	tracer().Infof("======================================")
	for i, finfo := range list.Items {
		if r.MatchString(finfo.Family) {
			tracer().Infof("[%4d] %-20s: %s", i, finfo.Family, finfo.Version)
			tracer().Infof("       subsets: %v", finfo.Subsets)
			for k, v := range finfo.Files {
				tracer().Infof("       - %-18s: %s", k, v[len(v)-4:])
			}
		}
	}
}
