package runtime

import (
	"sort"

	"github.com/sirupsen/logrus"

	"apigw-agent-bridge/internal/models"
)

// Classifier detects the shape of a raw payload by trying to construct each
// shape from it. Shapes with more required structure are tried first, so a
// payload that satisfies several shapes is given the most specific one.
type Classifier struct {
	order  []models.InvocationShape
	logger logrus.FieldLogger
}

// NewClassifier creates a classifier. A nil logger uses the standard logger.
func NewClassifier(logger logrus.FieldLogger) *Classifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	order := models.Shapes()
	sort.SliceStable(order, func(i, j int) bool {
		return models.Specificity(order[i]) > models.Specificity(order[j])
	})
	return &Classifier{order: order, logger: logger}
}

// Order returns the shapes in the order they are tried.
func (c *Classifier) Order() []models.InvocationShape {
	return append([]models.InvocationShape(nil), c.order...)
}

// Classify returns the shape of payload, or false when it matches none.
func (c *Classifier) Classify(payload map[string]any) (models.InvocationShape, bool) {
	return c.ClassifyAmong(payload, nil)
}

// ClassifyAmong is Classify limited to the shapes keep reports true for. A
// payload valid as several shapes takes the most specific kept one. A nil
// keep tries every shape.
func (c *Classifier) ClassifyAmong(payload map[string]any, keep func(models.InvocationShape) bool) (models.InvocationShape, bool) {
	for _, shape := range c.order {
		if keep != nil && !keep(shape) {
			continue
		}
		if c.Matches(payload, shape) {
			return shape, true
		}
	}
	return 0, false
}

// Matches reports whether payload constructs as shape. Construction errors
// are logged at debug level and not returned.
func (c *Classifier) Matches(payload map[string]any, shape models.InvocationShape) bool {
	if _, err := models.ParseRequest(shape, payload); err != nil {
		c.logger.WithFields(logrus.Fields{
			"shape": shape.String(),
			"error": err.Error(),
		}).Debug("Payload does not match shape")
		return false
	}
	return true
}
