package service

import (
	"strings"

	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/models"
)

// classifierRule 单个类别的关键字规则
type classifierRule struct {
	category string
	keywords []string
}

// Classifier 菜品文本分类器，纯函数，同一输入永远给出同一结果
type Classifier struct {
	version   string
	overrides map[string]string
	rules     []classifierRule
}

// NewClassifier 创建内置规则集的分类器
func NewClassifier() *Classifier {
	return &Classifier{
		version:   "v1",
		overrides: map[string]string{},
		rules: []classifierRule{
			{category: constants.StationCategoryGrill, keywords: []string{
				"grill", "steak", "burger", "chicken", "bbq", "kebab", "rib",
			}},
			{category: constants.StationCategoryFryer, keywords: []string{
				"fries", "fried", "tempura", "nugget", "wing", "croquette",
			}},
			{category: constants.StationCategorySalad, keywords: []string{
				"salad", "slaw", "ceviche", "cold",
			}},
			{category: constants.StationCategoryBar, keywords: []string{
				"coke", "cola", "juice", "beer", "wine", "soda", "tea",
				"coffee", "lemonade", "shake", "drink",
			}},
			{category: constants.StationCategoryDessert, keywords: []string{
				"cake", "ice cream", "pudding", "brownie", "dessert", "tart",
			}},
		},
	}
}

// Version 规则集版本
func (c *Classifier) Version() string {
	return c.version
}

// SetOverride 为指定菜品键设置类别覆盖
func (c *Classifier) SetOverride(menuItemKey, category string) {
	if c.overrides == nil {
		c.overrides = map[string]string{}
	}
	c.overrides[strings.ToLower(strings.TrimSpace(menuItemKey))] = category
}

// Classify 返回菜品命中的全部工位类别，未命中返回空
func (c *Classifier) Classify(item models.OrderItem) []string {
	if key := strings.ToLower(strings.TrimSpace(item.MenuItemKey)); key != "" {
		if category, ok := c.overrides[key]; ok {
			return []string{category}
		}
	}

	text := strings.ToLower(item.Name)
	if item.Modifier != "" {
		text += " " + strings.ToLower(item.Modifier)
	}

	var categories []string
	seen := make(map[string]bool)
	for _, rule := range c.rules {
		if seen[rule.category] {
			continue
		}
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				categories = append(categories, rule.category)
				seen[rule.category] = true
				break
			}
		}
	}
	return categories
}
