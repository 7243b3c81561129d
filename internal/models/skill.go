package models

// Skill is one markdown file of an imported skill bundle. The root SKILL.md
// is stored at an empty path and carries the bundle name and enabled flag.
type Skill struct {
	Base
	SkillKey    string  `json:"skillKey"    gorm:"size:191;not null;uniqueIndex:idx_skills_key_path,priority:1"`
	Path        string  `json:"path"        gorm:"size:255;not null;uniqueIndex:idx_skills_key_path,priority:2"`
	Name        *string `json:"name"        gorm:"size:255"`
	Description *string `json:"description" gorm:"type:text"`
	Content     string  `json:"content"     gorm:"type:longtext;not null"`
	ContentType string  `json:"contentType" gorm:"size:64;not null;default:text/markdown"`
	Enabled     bool    `json:"enabled"     gorm:"not null;default:true"`
}

func (Skill) TableName() string { return "skills" }
