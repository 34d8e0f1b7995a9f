package source

import (
	"fmt"

	"github.com/tsawler/tabula/core"

	"github.com/tsawler/pdf2xml/glyph"
	"github.com/tsawler/pdf2xml/model"
)

// resources resolves fonts and XObjects from a resource dictionary.
type resources struct {
	doc  *Document
	dict core.Dict

	// Fonts given as direct dictionaries have no reference to key them by.
	local map[string]*glyph.Font
}

var _ glyph.Resources = (*resources)(nil)

func (rs *resources) lookup(category, name string) (core.Object, error) {
	if rs.dict == nil {
		return nil, fmt.Errorf("%s %s: page has no resources", category, name)
	}
	catObj, err := rs.doc.r.Resolve(rs.dict.Get(category))
	if err != nil {
		return nil, fmt.Errorf("resolving %s resources: %w", category, err)
	}
	cat, ok := catObj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("%s %s: not in resources", category, name)
	}
	obj := cat.Get(name)
	if obj == nil {
		return nil, fmt.Errorf("%s %s: not in resources", category, name)
	}
	return obj, nil
}

func (rs *resources) Font(name string) (*glyph.Font, error) {
	obj, err := rs.lookup("Font", name)
	if err != nil {
		return nil, err
	}

	ref, isRef := obj.(core.IndirectRef)
	if isRef {
		if f, ok := rs.doc.fonts[ref]; ok {
			return f, nil
		}
	} else if f, ok := rs.local[name]; ok {
		return f, nil
	}

	resolved, err := rs.doc.r.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("resolving font %s: %w", name, err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("font %s is a %T, not a dictionary", name, resolved)
	}

	f := glyph.NewFont(name, dict, rs.doc.r.ResolveReference)
	if isRef {
		rs.doc.fonts[ref] = f
	} else {
		if rs.local == nil {
			rs.local = make(map[string]*glyph.Font)
		}
		rs.local[name] = f
	}
	return f, nil
}

func (rs *resources) Form(name string) (*glyph.Form, error) {
	obj, err := rs.lookup("XObject", name)
	if err != nil {
		return nil, err
	}
	resolved, err := rs.doc.r.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("resolving xobject %s: %w", name, err)
	}
	stream, ok := resolved.(*core.Stream)
	if !ok {
		return nil, nil
	}
	if sub, _ := stream.Dict.GetName("Subtype"); sub != "Form" {
		return nil, nil
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding form %s: %w", name, err)
	}

	form := &glyph.Form{Content: data, Matrix: model.Identity()}
	if arr, ok := stream.Dict.GetArray("Matrix"); ok && len(arr) == 6 {
		for i, v := range arr {
			switch n := v.(type) {
			case core.Int:
				form.Matrix[i] = float64(n)
			case core.Real:
				form.Matrix[i] = float64(n)
			}
		}
	}
	if resObj := stream.Dict.Get("Resources"); resObj != nil {
		if r, err := rs.doc.r.Resolve(resObj); err == nil {
			if d, ok := r.(core.Dict); ok {
				form.Resources = &resources{doc: rs.doc, dict: d}
			}
		}
	}
	return form, nil
}
