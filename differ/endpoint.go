package differ

import (
	"fmt"

	"github.com/erraggy/oassync/graph"
	"github.com/erraggy/oassync/ir"
)

func (d *differ) diffEndpoints() error {
	for key, oldEp := range d.old.Endpoints.All() {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		path := "endpoints/" + key
		newEp, ok := d.new.Endpoints.Get(key)
		if !ok {
			d.add(Change{
				Path:     path,
				Type:     ChangeTypeRemoved,
				Category: CategoryEndpoint,
				Rule:     RuleEndpointRemoved,
				OldValue: key,
				Message:  fmt.Sprintf("endpoint %s removed", key),
			})
			continue
		}
		d.diffEndpoint(oldEp, newEp, path)
	}
	for key := range d.new.Endpoints.All() {
		if d.old.Endpoints.Has(key) {
			continue
		}
		d.add(Change{
			Path:     "endpoints/" + key,
			Type:     ChangeTypeAdded,
			Category: CategoryEndpoint,
			Rule:     RuleEndpointAdded,
			NewValue: key,
			Message:  fmt.Sprintf("endpoint %s added", key),
		})
	}
	return nil
}

func (d *differ) diffEndpoint(oldEp, newEp *ir.Endpoint, path string) {
	if !oldEp.Deprecated && newEp.Deprecated {
		d.add(Change{
			Path:     path,
			Type:     ChangeTypeModified,
			Category: CategoryEndpoint,
			Rule:     RuleEndpointDeprecated,
			NewValue: true,
			Message:  "endpoint deprecated",
		})
	}
	if oldEp.OperationID != newEp.OperationID {
		d.add(Change{
			Path:     path + "/operation_id",
			Type:     ChangeTypeModified,
			Category: CategoryEndpoint,
			Rule:     RuleOperationIDChanged,
			OldValue: oldEp.OperationID,
			NewValue: newEp.OperationID,
			Message:  fmt.Sprintf("operationId changed from %q to %q", oldEp.OperationID, newEp.OperationID),
		})
	}
	d.diffParameters(oldEp, newEp, path+"/parameters")
	d.diffRequestBody(oldEp.RequestBody, newEp.RequestBody, path+"/request_body")
	d.diffResponses(oldEp, newEp, path+"/responses")
	d.diffSecurity(oldEp.Security, newEp.Security, path+"/security")
}

func (d *differ) diffParameters(oldEp, newEp *ir.Endpoint, path string) {
	for _, op := range oldEp.Parameters {
		ppath := path + "/" + op.ID()
		np := newEp.Parameter(op.Name, op.In)
		if np == nil {
			d.add(Change{
				Path:     ppath,
				Type:     ChangeTypeRemoved,
				Category: CategoryParameter,
				Rule:     RuleParameterRemoved,
				OldValue: op.Name,
				Message:  fmt.Sprintf("%s parameter %q removed", op.In, op.Name),
			})
			continue
		}
		switch {
		case !op.Required && np.Required:
			d.add(Change{
				Path:     ppath,
				Type:     ChangeTypeModified,
				Category: CategoryParameter,
				Rule:     RuleParameterRequired,
				OldValue: false,
				NewValue: true,
				Message:  fmt.Sprintf("%s parameter %q became required", op.In, op.Name),
			})
		case op.Required && !np.Required:
			d.add(Change{
				Path:     ppath,
				Type:     ChangeTypeModified,
				Category: CategoryParameter,
				Rule:     RuleParameterOptional,
				OldValue: true,
				NewValue: false,
				Message:  fmt.Sprintf("%s parameter %q became optional", op.In, op.Name),
			})
		}
		d.compareRef(op.Schema, np.Schema, ppath+"/schema", CategoryParameter, graph.RoleRequest, 0)
	}
	for _, np := range newEp.Parameters {
		if oldEp.Parameter(np.Name, np.In) != nil {
			continue
		}
		rule := RuleParameterAddedOptional
		if np.Required {
			rule = RuleParameterAddedRequired
		}
		d.add(Change{
			Path:     path + "/" + np.ID(),
			Type:     ChangeTypeAdded,
			Category: CategoryParameter,
			Rule:     rule,
			NewValue: np.Name,
			Message:  fmt.Sprintf("%s %s parameter %q added", requiredWord(np.Required), np.In, np.Name),
		})
	}
}

func requiredWord(required bool) string {
	if required {
		return "required"
	}
	return "optional"
}

func (d *differ) diffRequestBody(oldBody, newBody *ir.RequestBody, path string) {
	switch {
	case oldBody == nil && newBody == nil:
		return
	case oldBody == nil:
		rule := RuleRequestBodyAddedOptional
		if newBody.Required {
			rule = RuleRequestBodyAddedRequired
		}
		d.add(Change{
			Path:     path,
			Type:     ChangeTypeAdded,
			Category: CategoryRequestBody,
			Rule:     rule,
			Message:  requiredWord(newBody.Required) + " request body added",
		})
		return
	case newBody == nil:
		d.add(Change{
			Path:     path,
			Type:     ChangeTypeRemoved,
			Category: CategoryRequestBody,
			Rule:     RuleRequestBodyRemoved,
			Message:  "request body removed",
		})
		return
	}

	switch {
	case !oldBody.Required && newBody.Required:
		d.add(Change{
			Path:     path,
			Type:     ChangeTypeModified,
			Category: CategoryRequestBody,
			Rule:     RuleRequestBodyRequired,
			OldValue: false,
			NewValue: true,
			Message:  "request body became required",
		})
	case oldBody.Required && !newBody.Required:
		d.add(Change{
			Path:     path,
			Type:     ChangeTypeModified,
			Category: CategoryRequestBody,
			Rule:     RuleRequestBodyOptional,
			OldValue: true,
			NewValue: false,
			Message:  "request body became optional",
		})
	}
	d.diffMediaTypes(oldBody.ContentTypes, newBody.ContentTypes, path, CategoryRequestBody)
	d.diffBodySchema(oldBody.Schema, newBody.Schema, path+"/schema", CategoryRequestBody, graph.RoleRequest)
}

func (d *differ) diffResponses(oldEp, newEp *ir.Endpoint, path string) {
	for code, oldResp := range oldEp.Responses.All() {
		rpath := path + "/" + code
		newResp, ok := newEp.Responses.Get(code)
		if !ok {
			rule := RuleResponseErrorRemoved
			if ir.IsSuccessCode(code) {
				rule = RuleResponseSuccessRemoved
			}
			d.add(Change{
				Path:     rpath,
				Type:     ChangeTypeRemoved,
				Category: CategoryResponse,
				Rule:     rule,
				OldValue: code,
				Message:  fmt.Sprintf("response %s removed", code),
			})
			continue
		}
		d.diffMediaTypes(oldResp.ContentTypes, newResp.ContentTypes, rpath, CategoryResponse)
		d.diffBodySchema(oldResp.Schema, newResp.Schema, rpath+"/schema", CategoryResponse, graph.RoleResponse)
	}
	for code := range newEp.Responses.All() {
		if oldEp.Responses.Has(code) {
			continue
		}
		d.add(Change{
			Path:     path + "/" + code,
			Type:     ChangeTypeAdded,
			Category: CategoryResponse,
			Rule:     RuleResponseAdded,
			NewValue: code,
			Message:  fmt.Sprintf("response %s added", code),
		})
	}
}

func (d *differ) diffBodySchema(oldRef, newRef *ir.SchemaRef, path string, cat ChangeCategory, role graph.Role) {
	switch {
	case oldRef == nil && newRef == nil:
	case oldRef == nil:
		d.add(Change{
			Path:     path,
			Type:     ChangeTypeAdded,
			Category: cat,
			Rule:     RuleBodySchemaAdded,
			NewValue: refLabel(newRef),
			Message:  "body schema added",
		})
	case newRef == nil:
		d.add(Change{
			Path:     path,
			Type:     ChangeTypeRemoved,
			Category: cat,
			Rule:     RuleBodySchemaRemoved,
			OldValue: refLabel(oldRef),
			Message:  "body schema removed",
		})
	default:
		d.compareRef(oldRef, newRef, path, cat, role, 0)
	}
}

func (d *differ) diffMediaTypes(oldTypes, newTypes []string, path string, cat ChangeCategory) {
	removed, added := setDiff(oldTypes, newTypes)
	for _, mt := range removed {
		d.add(Change{
			Path:     path + "/content/" + mt,
			Type:     ChangeTypeRemoved,
			Category: cat,
			Rule:     RuleMediaTypeRemoved,
			OldValue: mt,
			Message:  fmt.Sprintf("media type %s removed", mt),
		})
	}
	for _, mt := range added {
		d.add(Change{
			Path:     path + "/content/" + mt,
			Type:     ChangeTypeAdded,
			Category: cat,
			Rule:     RuleMediaTypeAdded,
			NewValue: mt,
			Message:  fmt.Sprintf("media type %s added", mt),
		})
	}
}

func (d *differ) diffSecurity(oldReqs, newReqs []string, path string) {
	removed, added := setDiff(oldReqs, newReqs)
	for _, name := range removed {
		d.add(Change{
			Path:     path + "/" + name,
			Type:     ChangeTypeRemoved,
			Category: CategorySecurity,
			Rule:     RuleSecurityRequirementRemoved,
			OldValue: name,
			Message:  fmt.Sprintf("security requirement %q removed", name),
		})
	}
	for _, name := range added {
		d.add(Change{
			Path:     path + "/" + name,
			Type:     ChangeTypeAdded,
			Category: CategorySecurity,
			Rule:     RuleSecurityRequirementAdded,
			NewValue: name,
			Message:  fmt.Sprintf("security requirement %q added", name),
		})
	}
}

// setDiff returns the values only in a and only in b, each in input order.
func setDiff(a, b []string) (onlyA, onlyB []string) {
	inA := make(map[string]bool, len(a))
	for _, v := range a {
		inA[v] = true
	}
	inB := make(map[string]bool, len(b))
	for _, v := range b {
		inB[v] = true
	}
	for _, v := range a {
		if !inB[v] {
			onlyA = append(onlyA, v)
		}
	}
	for _, v := range b {
		if !inA[v] {
			onlyB = append(onlyB, v)
		}
	}
	return onlyA, onlyB
}
