// Package blank defines the placeholder categories that appear in templates and notes,
// their marker encoding, and the scanner that finds markers in document content.
package blank

// Kind is a closed set of placeholder categories.
type Kind int

const (
	KindCurrentUser Kind = iota
	KindClient
	KindCollateral
	KindGuardian
	KindClientGoal
	KindTodaysDate
	KindDate
	KindTime
	KindInternalDocument
	KindExternalDocument
	KindIntervention
	KindActivity
	KindLocation
	KindContactMethod
	KindService
	KindAppearance
	KindAffect
	KindMood
	KindBehavior
	KindSymptom
	KindProgress
	KindResponse
	KindPlan
	KindTopic
	KindStrength
	KindBarrier
	KindRisk
	KindFollowUp
	KindCustom
	KindUserPronoun1
	KindUserPronoun2
	KindUserPronoun3
	KindUserPronoun4
	KindClientPronoun1
	KindClientPronoun2
	KindClientPronoun3
	KindClientPronoun4
	KindPronoun1ForBlank
	KindPronoun2ForBlank
	KindPronoun3ForBlank
	KindPronoun4ForBlank

	kindCount
)

// Resolution describes where a blank's value comes from.
type Resolution int

const (
	// ResolveVocabulary picks from a closed list of display strings.
	ResolveVocabulary Resolution = iota
	// ResolvePerson picks a person from the people directory.
	ResolvePerson
	// ResolveDerived is computed from the note itself (date, pronouns, back-references).
	ResolveDerived
	// ResolveFreeText needs typed, confirmed text.
	ResolveFreeText
)

// PronounForm selects one of the four pronoun shapes.
type PronounForm int

const (
	PronounNone PronounForm = iota
	PronounSubject
	PronounObject
	PronounPossessive
	PronounPossessivePronoun
)

func (f PronounForm) String() string {
	switch f {
	case PronounSubject:
		return "subject form, e.g. they"
	case PronounObject:
		return "object form, e.g. them"
	case PronounPossessive:
		return "possessive form, e.g. their"
	case PronounPossessivePronoun:
		return "possessive pronoun, e.g. theirs"
	default:
		return "none"
	}
}

type kindSpec struct {
	abbrev     string
	label      string
	prompt     string
	resolution Resolution
	role       string
	pronoun    PronounForm
	backRef    bool
}

// Indexed by Kind; blank_test.go checks the table stays complete.
var kindSpecs = [kindCount]kindSpec{
	KindCurrentUser:      {abbrev: "u", label: "Current user", prompt: "your name", resolution: ResolveDerived, role: RoleUser},
	KindClient:           {abbrev: "c", label: "Client", prompt: "the client's name", resolution: ResolveDerived, role: RoleClient},
	KindCollateral:       {abbrev: "co", label: "Collateral contact", prompt: "a collateral contact (teacher, provider, relative)", resolution: ResolvePerson, role: RoleCollateral},
	KindGuardian:         {abbrev: "g", label: "Guardian", prompt: "the client's parent or guardian", resolution: ResolvePerson, role: RoleGuardian},
	KindClientGoal:       {abbrev: "cg", label: "Client goal", prompt: "one of the client's treatment goals", resolution: ResolveVocabulary},
	KindTodaysDate:       {abbrev: "td", label: "Today's date", prompt: "today's date", resolution: ResolveDerived},
	KindDate:             {abbrev: "dt", label: "Date", prompt: "a date", resolution: ResolveFreeText},
	KindTime:             {abbrev: "tm", label: "Time", prompt: "a time of day", resolution: ResolveFreeText},
	KindInternalDocument: {abbrev: "id", label: "Internal document", prompt: "a document kept by the agency", resolution: ResolveVocabulary},
	KindExternalDocument: {abbrev: "ed", label: "External document", prompt: "a document received from outside the agency", resolution: ResolveVocabulary},
	KindIntervention:     {abbrev: "in", label: "Intervention", prompt: "the intervention used", resolution: ResolveVocabulary},
	KindActivity:         {abbrev: "a", label: "Activity", prompt: "an activity completed during the contact", resolution: ResolveVocabulary},
	KindLocation:         {abbrev: "l", label: "Location", prompt: "where the contact took place", resolution: ResolveVocabulary},
	KindContactMethod:    {abbrev: "cm", label: "Contact method", prompt: "how the contact happened", resolution: ResolveVocabulary},
	KindService:          {abbrev: "sv", label: "Service", prompt: "the service provided", resolution: ResolveVocabulary},
	KindAppearance:       {abbrev: "ap", label: "Appearance", prompt: "the client's appearance", resolution: ResolveVocabulary},
	KindAffect:           {abbrev: "af", label: "Affect", prompt: "the client's affect", resolution: ResolveVocabulary},
	KindMood:             {abbrev: "mo", label: "Mood", prompt: "the client's reported mood", resolution: ResolveVocabulary},
	KindBehavior:         {abbrev: "be", label: "Behavior", prompt: "a behavior that was observed", resolution: ResolveVocabulary},
	KindSymptom:          {abbrev: "sy", label: "Symptom", prompt: "a symptom reported or observed", resolution: ResolveVocabulary},
	KindProgress:         {abbrev: "pg", label: "Progress", prompt: "progress toward the goal", resolution: ResolveVocabulary},
	KindResponse:         {abbrev: "rs", label: "Client response", prompt: "how the client responded", resolution: ResolveVocabulary},
	KindPlan:             {abbrev: "pl", label: "Plan", prompt: "the plan going forward", resolution: ResolveVocabulary},
	KindTopic:            {abbrev: "tp", label: "Topic", prompt: "a topic that was discussed", resolution: ResolveVocabulary},
	KindStrength:         {abbrev: "st", label: "Strength", prompt: "a strength the client showed", resolution: ResolveVocabulary},
	KindBarrier:          {abbrev: "ba", label: "Barrier", prompt: "a barrier to progress", resolution: ResolveVocabulary},
	KindRisk:             {abbrev: "ri", label: "Risk", prompt: "a safety or risk factor", resolution: ResolveVocabulary},
	KindFollowUp:         {abbrev: "fu", label: "Follow-up", prompt: "the follow-up action", resolution: ResolveVocabulary},
	KindCustom:           {abbrev: "cu", label: "Custom text", prompt: "free text of your choosing", resolution: ResolveFreeText},
	KindUserPronoun1:     {abbrev: "up1", label: "Your pronoun (subject)", resolution: ResolveDerived, role: RoleUser, pronoun: PronounSubject},
	KindUserPronoun2:     {abbrev: "up2", label: "Your pronoun (object)", resolution: ResolveDerived, role: RoleUser, pronoun: PronounObject},
	KindUserPronoun3:     {abbrev: "up3", label: "Your pronoun (possessive)", resolution: ResolveDerived, role: RoleUser, pronoun: PronounPossessive},
	KindUserPronoun4:     {abbrev: "up4", label: "Your pronoun (possessive pronoun)", resolution: ResolveDerived, role: RoleUser, pronoun: PronounPossessivePronoun},
	KindClientPronoun1:   {abbrev: "cp1", label: "Client pronoun (subject)", resolution: ResolveDerived, role: RoleClient, pronoun: PronounSubject},
	KindClientPronoun2:   {abbrev: "cp2", label: "Client pronoun (object)", resolution: ResolveDerived, role: RoleClient, pronoun: PronounObject},
	KindClientPronoun3:   {abbrev: "cp3", label: "Client pronoun (possessive)", resolution: ResolveDerived, role: RoleClient, pronoun: PronounPossessive},
	KindClientPronoun4:   {abbrev: "cp4", label: "Client pronoun (possessive pronoun)", resolution: ResolveDerived, role: RoleClient, pronoun: PronounPossessivePronoun},
	KindPronoun1ForBlank: {abbrev: "p1b", label: "Pronoun (subject) for blank", resolution: ResolveDerived, pronoun: PronounSubject, backRef: true},
	KindPronoun2ForBlank: {abbrev: "p2b", label: "Pronoun (object) for blank", resolution: ResolveDerived, pronoun: PronounObject, backRef: true},
	KindPronoun3ForBlank: {abbrev: "p3b", label: "Pronoun (possessive) for blank", resolution: ResolveDerived, pronoun: PronounPossessive, backRef: true},
	KindPronoun4ForBlank: {abbrev: "p4b", label: "Pronoun (possessive pronoun) for blank", resolution: ResolveDerived, pronoun: PronounPossessivePronoun, backRef: true},
}

// Person roles used by the people directory.
const (
	RoleUser       = "user"
	RoleClient     = "client"
	RoleCollateral = "collateral"
	RoleGuardian   = "guardian"
)

var kindsByAbbrev = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		m[kindSpecs[k].abbrev] = k
	}
	return m
}()

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// KindFromAbbreviation looks up a kind by its bare marker code.
func KindFromAbbreviation(abbrev string) (Kind, bool) {
	k, ok := kindsByAbbrev[abbrev]
	return k, ok
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Abbreviation is the bare marker code, without any back-reference ordinal.
func (k Kind) Abbreviation() string {
	if !k.Valid() {
		return ""
	}
	return kindSpecs[k].abbrev
}

// Label is the short name shown once a blank is filled.
func (k Kind) Label() string {
	if !k.Valid() {
		return "Unknown"
	}
	return kindSpecs[k].label
}

func (k Kind) String() string {
	return k.Label()
}

// Resolution reports how a value for this kind is obtained.
func (k Kind) Resolution() Resolution {
	if !k.Valid() {
		return ResolveFreeText
	}
	return kindSpecs[k].resolution
}

// Role is the people-directory role for person and pronoun kinds, empty otherwise.
func (k Kind) Role() string {
	if !k.Valid() {
		return ""
	}
	return kindSpecs[k].role
}

// IsCustom is true only for the free-text fallback kind.
func (k Kind) IsCustom() bool {
	return k == KindCustom
}

// IsPerson reports whether a filled value of this kind names a person.
func (k Kind) IsPerson() bool {
	switch k {
	case KindCurrentUser, KindClient, KindCollateral, KindGuardian:
		return true
	default:
		return false
	}
}

// IsBackReference reports whether the kind carries an ordinal payload.
func (k Kind) IsBackReference() bool {
	return k.Valid() && kindSpecs[k].backRef
}

// PronounForm is the pronoun shape a pronoun kind resolves to.
func (k Kind) PronounForm() PronounForm {
	if !k.Valid() {
		return PronounNone
	}
	return kindSpecs[k].pronoun
}
