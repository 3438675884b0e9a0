package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/erraggy/oassync/internal/httputil"
	"github.com/erraggy/oassync/ir"
	"go.yaml.in/yaml/v4"
)

// rawParam is a parameter declaration with any "$ref" already followed.
type rawParam struct {
	name string
	in   string
	node *yaml.Node
	ptr  string
}

func (b *builder) paths() {
	paths := mapGet(b.root, "paths")
	if paths == nil {
		// 3.1 documents may consist only of components or webhooks.
		if !(b.oas31 && (mapHas(b.root, "components") || mapHas(b.root, "webhooks"))) {
			b.violate(b.root, "/paths", "missing required field 'paths'")
		}
		return
	}
	if !isMapping(paths) {
		b.violate(paths, "/paths", "paths must be an object")
		return
	}
	mapEach(paths, func(path string, item *yaml.Node) {
		if strings.HasPrefix(path, "x-") {
			return
		}
		b.pathItem(path, item, child("/paths", path))
	})
}

func (b *builder) pathItem(path string, item *yaml.Node, ptr string) {
	if !strings.HasPrefix(path, "/") {
		b.violate(item, ptr, "path must begin with '/'")
	}
	if ref := mapGet(item, "$ref"); ref != nil {
		target, targetPtr := b.resolveRef(ref, child(ptr, "$ref"))
		if target == nil {
			return
		}
		item, ptr = target, targetPtr
	}
	if !isMapping(item) {
		b.violate(item, ptr, "path item must be an object")
		return
	}

	shared := b.collectParams(mapGet(item, "parameters"), child(ptr, "parameters"))
	template := templateParams(path)
	mapEach(item, func(key string, op *yaml.Node) {
		method := strings.ToLower(key)
		if !httputil.IsMethod(method) {
			return
		}
		if !isMapping(op) {
			b.violate(op, child(ptr, key), "operation must be an object")
			return
		}
		b.operation(path, method, op, child(ptr, key), shared, template)
	})
}

func (b *builder) operation(path, method string, op *yaml.Node, ptr string, shared []rawParam, template []string) {
	ep := &ir.Endpoint{
		Method:      strings.ToUpper(method),
		Path:        path,
		OperationID: scalar(mapGet(op, "operationId")),
		Summary:     scalar(mapGet(op, "summary")),
		Description: scalar(mapGet(op, "description")),
		Tags:        stringList(mapGet(op, "tags")),
		Deprecated:  boolean(mapGet(op, "deprecated")),
		Responses:   ir.NewOrderedMap[*ir.Response](),
	}

	if id := ep.OperationID; id != "" {
		idPtr := child(ptr, "operationId")
		if first, ok := b.operationIDs[id]; ok {
			b.violate(mapGet(op, "operationId"), idPtr, "duplicate operationId %q (first declared at %s)", id, first)
		} else {
			b.operationIDs[id] = idPtr
		}
	}

	params := mergeParams(shared, b.collectParams(mapGet(op, "parameters"), child(ptr, "parameters")))
	if b.legacy {
		b.legacyParameters(ep, op, params)
	} else {
		b.modernParameters(ep, params)
		b.requestBody(ep, mapGet(op, "requestBody"), child(ptr, "requestBody"))
	}
	b.checkPathParams(op, ptr, params, template)

	responsesPtr := child(ptr, "responses")
	responses := mapGet(op, "responses")
	switch {
	case responses == nil:
		if !b.oas31 {
			b.violate(op, responsesPtr, "missing required field 'responses'")
		}
	case !isMapping(responses):
		b.violate(responses, responsesPtr, "responses must be an object")
	default:
		mapEach(responses, func(code string, n *yaml.Node) {
			if strings.HasPrefix(code, "x-") {
				return
			}
			rptr := child(responsesPtr, code)
			if !httputil.ValidStatusCode(code) {
				b.violate(n, rptr, "invalid response status code %q", code)
				return
			}
			if resp := b.response(code, n, rptr, op); resp != nil {
				ep.Responses.Set(code, resp)
			}
		})
	}

	ep.Security = b.security(op, ptr)
	b.doc.Endpoints.Set(ep.Key(), ep)
}

// collectParams follows parameter references and drops entries without a
// usable name or location.
func (b *builder) collectParams(seq *yaml.Node, ptr string) []rawParam {
	var out []rawParam
	seqEach(seq, func(i int, n *yaml.Node) {
		p := ptr + "/" + strconv.Itoa(i)
		if ref := mapGet(n, "$ref"); ref != nil {
			target, targetPtr := b.resolveRef(ref, child(p, "$ref"))
			if target == nil {
				return
			}
			n, p = target, targetPtr
		}
		name := scalar(mapGet(n, "name"))
		in := scalar(mapGet(n, "in"))
		if name == "" {
			b.violate(n, child(p, "name"), "missing required field 'name'")
			return
		}
		if !b.validLocation(in) {
			b.violate(n, child(p, "in"), "invalid parameter location %q", in)
			return
		}
		out = append(out, rawParam{name: name, in: in, node: n, ptr: p})
	})
	return out
}

func (b *builder) validLocation(in string) bool {
	switch in {
	case ir.InPath, ir.InQuery, ir.InHeader:
		return true
	case ir.InCookie:
		return !b.legacy
	case "body", "formData":
		return b.legacy
	}
	return false
}

// mergeParams overlays operation parameters on path-level ones. An operation
// parameter with the same name and location replaces the shared one in place.
func mergeParams(shared, own []rawParam) []rawParam {
	if len(shared) == 0 {
		return own
	}
	out := make([]rawParam, len(shared), len(shared)+len(own))
	copy(out, shared)
	for _, p := range own {
		replaced := false
		for i := range out {
			if out[i].name == p.name && out[i].in == p.in {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}

var templatePattern = regexp.MustCompile(`\{([^{}]+)\}`)

// templateParams returns the parameter names of a path template in order.
func templateParams(path string) []string {
	var names []string
	for _, m := range templatePattern.FindAllStringSubmatch(path, -1) {
		names = append(names, m[1])
	}
	return names
}

// checkPathParams verifies that template names and path parameters match both ways.
func (b *builder) checkPathParams(op *yaml.Node, ptr string, params []rawParam, template []string) {
	inTemplate := make(map[string]bool, len(template))
	for _, name := range template {
		inTemplate[name] = true
	}
	declared := make(map[string]bool)
	for _, p := range params {
		if p.in != ir.InPath {
			continue
		}
		declared[p.name] = true
		if !inTemplate[p.name] {
			b.violate(p.node, p.ptr, "path parameter %q does not appear in path template", p.name)
		}
	}
	for _, name := range template {
		if !declared[name] {
			b.violate(op, ptr, "path parameter %q is not declared", name)
		}
	}
}

func (b *builder) response(code string, n *yaml.Node, ptr string, op *yaml.Node) *ir.Response {
	if ref := mapGet(n, "$ref"); ref != nil {
		target, targetPtr := b.resolveRef(ref, child(ptr, "$ref"))
		if target == nil {
			return nil
		}
		n, ptr = target, targetPtr
	}
	if !isMapping(n) {
		b.violate(n, ptr, "response must be an object")
		return nil
	}
	resp := &ir.Response{
		StatusCode:  code,
		Description: scalar(mapGet(n, "description")),
	}
	if b.legacy {
		if schema := mapGet(n, "schema"); schema != nil {
			resp.Schema = b.schema(schema, child(ptr, "schema"), 0)
			resp.ContentTypes = b.mediaTypes(op, "produces")
		}
		return resp
	}
	types, media, mediaPtr := preferredMedia(mapGet(n, "content"), child(ptr, "content"))
	resp.ContentTypes = types
	if schema := mapGet(media, "schema"); schema != nil {
		resp.Schema = b.schema(schema, child(mediaPtr, "schema"), 0)
	}
	return resp
}

// security returns the scheme names required by an operation, falling back
// to the document-level requirement.
func (b *builder) security(op *yaml.Node, ptr string) []string {
	reqs, reqsPtr := mapGet(op, "security"), child(ptr, "security")
	if reqs == nil {
		reqs, reqsPtr = mapGet(b.root, "security"), "/security"
	}
	var names []string
	seen := make(map[string]bool)
	seqEach(reqs, func(i int, req *yaml.Node) {
		mapEach(req, func(name string, _ *yaml.Node) {
			if !b.doc.SecuritySchemes.Has(name) {
				b.violate(req, reqsPtr+"/"+strconv.Itoa(i), "security requirement references undefined scheme %q", name)
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		})
	})
	return names
}

// preferredMedia lists the declared media types and picks the one whose
// schema represents the payload: application/json, then any +json type,
// then the first declared.
func preferredMedia(content *yaml.Node, ptr string) (types []string, media *yaml.Node, mediaPtr string) {
	mapEach(content, func(t string, _ *yaml.Node) {
		types = append(types, t)
	})
	if len(types) == 0 {
		return nil, nil, ""
	}
	chosen := types[0]
	found := false
	for _, t := range types {
		if httputil.MediaBase(t) == httputil.MediaTypeJSON {
			chosen, found = t, true
			break
		}
	}
	if !found {
		for _, t := range types {
			if httputil.IsJSONMedia(t) {
				chosen = t
				break
			}
		}
	}
	return types, mapGet(content, chosen), child(ptr, chosen)
}
