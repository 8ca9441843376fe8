package completion

import (
	"github.com/oxhq/rsmatch/internal/classify"
	"github.com/oxhq/rsmatch/internal/pattern"
	"github.com/oxhq/rsmatch/internal/registry"
	"github.com/oxhq/rsmatch/internal/syntax"
)

var cfgFeaturePosition = pattern.Kind(syntax.StringLiteral).WithParent(classify.OnCfgOrAttrFeature)

func (c *Contributor) cfgFeatures(registry.Request) ([]Item, error) {
	return items("feature", c.features...), nil
}
