package xplangml

// 声明式类型目录
// 源标准中数百个要素类通过多层继承表达，这里压平为每类一条注册表记录
// 属性顺序即序列化顺序

var (
	// BP_Rechtscharakter 建设规划内容的法律性质
	enumBPRechtscharakter = &EnumDef{
		Name: "BP_Rechtscharakter",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Festsetzung"},
			{Code: 2000, Name: "NachrichtlicheUebernahme"},
			{Code: 2500, Name: "NachrichtlicheUebernahmeAusGleicherEbene", AbVersion: Version60},
			{Code: 3000, Name: "Hinweis"},
			{Code: 4000, Name: "Vermerk"},
			{Code: 5000, Name: "Kennzeichnung"},
			{Code: 9998, Name: "Unbekannt"},
		},
	}

	enumXPRechtscharakter = &EnumDef{
		Name: "XP_Rechtscharakter",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "FestsetzungBPlan"},
			{Code: 2000, Name: "DarstellungFPlan"},
			{Code: 3000, Name: "InhaltLPlan"},
			{Code: 4000, Name: "InhaltRPlan", AbVersion: Version51},
			{Code: 5000, Name: "NachrichtlicheUebernahme"},
			{Code: 9998, Name: "Unbekannt"},
		},
	}

	enumRechtsstand = &EnumDef{
		Name: "XP_Rechtsstand",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Aufstellungsbeschluss"},
			{Code: 2000, Name: "ImVerfahren"},
			{Code: 2100, Name: "Entwurf"},
			{Code: 3000, Name: "Satzung"},
			{Code: 4000, Name: "InkraftGetreten"},
			{Code: 5000, Name: "TeilweiseUntergegangen", AbVersion: Version50},
			{Code: 6000, Name: "Untergegangen"},
		},
	}

	enumAllgArtBaulNutzung = &EnumDef{
		Name: "XP_AllgArtDerBaulNutzung",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "WohnBauflaeche"},
			{Code: 2000, Name: "GemischteBauflaeche"},
			{Code: 3000, Name: "GewerblicheBauflaeche"},
			{Code: 4000, Name: "SonderBauflaeche"},
			{Code: 9999, Name: "SonstigeBauflaeche"},
		},
	}

	enumBesArtBaulNutzung = &EnumDef{
		Name: "XP_BesondereArtDerBaulNutzung",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Kleinsiedlungsgebiet"},
			{Code: 1100, Name: "ReinesWohngebiet"},
			{Code: 1200, Name: "AllgWohngebiet"},
			{Code: 1300, Name: "BesonderesWohngebiet"},
			{Code: 1400, Name: "Dorfgebiet"},
			{Code: 1450, Name: "DoerflichesWohngebiet", AbVersion: Version60},
			{Code: 1500, Name: "Mischgebiet"},
			{Code: 1550, Name: "UrbanesGebiet", AbVersion: Version51},
			{Code: 1600, Name: "Kerngebiet"},
			{Code: 1700, Name: "Gewerbegebiet"},
			{Code: 1800, Name: "Industriegebiet"},
			{Code: 2000, Name: "Sondergebiet"},
		},
	}

	enumBauweise = &EnumDef{
		Name: "BP_Bauweise",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "OffeneBauweise"},
			{Code: 2000, Name: "GeschlosseneBauweise"},
			{Code: 3000, Name: "AbweichendeBauweise"},
		},
	}

	enumNutzungsform = &EnumDef{
		Name: "XP_Nutzungsform",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Privat"},
			{Code: 2000, Name: "Oeffentlich"},
		},
	}

	enumZweckGruen = &EnumDef{
		Name: "XP_ZweckbestimmungGruen",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Parkanlage"},
			{Code: 1200, Name: "Dauerkleingarten"},
			{Code: 1400, Name: "Sportanlage"},
			{Code: 1600, Name: "Spielplatz"},
			{Code: 2000, Name: "Friedhof"},
			{Code: 2600, Name: "Naturerfahrungsraum", AbVersion: Version54},
			{Code: 9999, Name: "Sonstiges"},
		},
	}

	enumZweckGemeinbedarf = &EnumDef{
		Name: "XP_ZweckbestimmungGemeinbedarf",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "OeffentlicheVerwaltung"},
			{Code: 1200, Name: "BildungForschung"},
			{Code: 1600, Name: "Kirche"},
			{Code: 2000, Name: "Sozial"},
			{Code: 2400, Name: "Gesundheit"},
			{Code: 2800, Name: "Kultur"},
			{Code: 3000, Name: "Sport"},
			{Code: 9999, Name: "Sonstiges"},
		},
	}

	enumWegerechtTyp = &EnumDef{
		Name: "BP_WegerechtTypen",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Gehrecht"},
			{Code: 2000, Name: "Fahrrecht"},
			{Code: 3000, Name: "GehFahrrecht"},
			{Code: 4000, Name: "Leitungsrecht"},
			{Code: 5000, Name: "GehFahrLeitungsrecht", AbVersion: Version50},
		},
	}

	enumABEGegenstand = &EnumDef{
		Name: "XP_ABEGegenstand",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Baeume"},
			{Code: 2000, Name: "Straeucher"},
			{Code: 3000, Name: "BaeumeUndStraeucher"},
			{Code: 4000, Name: "Hecken"},
			{Code: 5000, Name: "Krautschicht"},
		},
	}

	enumABEMassnahme = &EnumDef{
		Name: "XP_ABEMassnahmenTypen",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Anpflanzung"},
			{Code: 2000, Name: "BindungErhaltung"},
			{Code: 3000, Name: "AnpflanzungBindungErhaltung"},
		},
	}

	enumBereichBedeutung = &EnumDef{
		Name: "XP_BedeutungenBereich",
		Mitglieder: []EnumMitglied{
			{Code: 1600, Name: "Teilbereich"},
			{Code: 1800, Name: "Kompensationsbereich"},
			{Code: 9999, Name: "Sonstiges"},
		},
	}

	enumBPPlanart = &EnumDef{
		Name: "BP_PlanArt",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "BPlan"},
			{Code: 3000, Name: "VorhabenbezogenerBPlan"},
			{Code: 4000, Name: "InnenbereichsSatzung"},
			{Code: 10000, Name: "EinfacherBPlan"},
			{Code: 10001, Name: "QualifizierterBPlan"},
			{Code: 10002, Name: "BebauungsplanZurWohnraumversorgung", AbVersion: Version60},
		},
	}

	enumFPPlanart = &EnumDef{
		Name: "FP_PlanArt",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "FPlan"},
			{Code: 2000, Name: "GemeinsamerFPlan"},
			{Code: 3000, Name: "RegFPlan"},
			{Code: 9999, Name: "Sonstiges"},
		},
	}

	enumRefTyp = &EnumDef{
		Name: "XP_ExterneReferenzTyp",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Beschreibung"},
			{Code: 1010, Name: "Begruendung"},
			{Code: 1040, Name: "Plangrundlage"},
			{Code: 1050, Name: "Legende"},
			{Code: 1060, Name: "Rechtsplan"},
			{Code: 1065, Name: "Gruenordnungsplan", AbVersion: Version54},
			{Code: 9999, Name: "Sonstiges"},
		},
	}

	enumDenkmalArt = &EnumDef{
		Name: "SO_KlassifizNachDenkmalschutzrecht",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "DenkmalschutzEnsemble"},
			{Code: 1100, Name: "DenkmalschutzEinzelanlage"},
			{Code: 1200, Name: "Grabungsschutzgebiet"},
			{Code: 9999, Name: "Sonstiges"},
		},
	}

	enumStrassenArt = &EnumDef{
		Name: "SO_KlassifizNachStrassenverkehrsrecht",
		Mitglieder: []EnumMitglied{
			{Code: 1000, Name: "Bundesautobahn"},
			{Code: 1100, Name: "Bundesstrasse"},
			{Code: 1200, Name: "LandesStaatsstrasse"},
			{Code: 1300, Name: "Kreisstrasse"},
			{Code: 9999, Name: "Sonstiges"},
		},
	}
)

// planBasis 所有规划类共有的属性
func planBasis() []AttributeDescriptor {
	return []AttributeDescriptor{
		{Name: "name", Art: WertText},
		{Name: "nummer", Art: WertText},
		{Name: "beschreibung", Art: WertText},
		{Name: "kommentar", Art: WertText},
		{Name: "technHerstellDatum", Art: WertDatum},
		{Name: "untergangsDatum", Art: WertDatum},
		{Name: "erstellungsMassstab", Art: WertGanzzahl},
		{Name: "bezugshoehe", Art: WertDezimal},
		{Name: "technischerPlanersteller", Art: WertText, AbVersion: Version52},
		{Name: "rechtsstand", Art: WertEnum, Enum: enumRechtsstand},
		{Name: "raeumlicherGeltungsbereich", Art: WertGeometrie},
		{Name: "gemeinde", Art: WertRelation, RelationTyp: "XP_Gemeinde"},
		{Name: "externeReferenz", Art: WertRelation, RelationTyp: "XP_SpezExterneReferenz"},
	}
}

// bereichBasis 各分区类共有的属性，planinhalt与praesentationsobjekt为多态关系
func bereichBasis() []AttributeDescriptor {
	return []AttributeDescriptor{
		{Name: "nummer", Art: WertGanzzahl},
		{Name: "name", Art: WertText},
		{Name: "bedeutung", Art: WertEnum, Enum: enumBereichBedeutung},
		{Name: "geltungsbereich", Art: WertGeometrie},
		{Name: "refScan", Art: WertRelation, RelationTyp: "XP_ExterneReferenz"},
		{Name: "planinhalt", Art: WertRelation},
		{Name: "praesentationsobjekt", Art: WertRelation},
		{Name: "gehoertZuPlan", Art: WertVerweis},
	}
}

// objektBasis 所有规划内容要素共有的属性
// darstellungsprioritaet是内部渲染排序字段，任何版本都不导出
func objektBasis(rechtscharakter *EnumDef) []AttributeDescriptor {
	return []AttributeDescriptor{
		{Name: "text", Art: WertText},
		{Name: "gesetzlicheGrundlage", Art: WertText},
		{Name: "ebene", Art: WertGanzzahl},
		{Name: "rechtscharakter", Art: WertEnum, Enum: rechtscharakter},
		{Name: "startBedingung", Art: WertDatum, AbVersion: Version54},
		{Name: "endeBedingung", Art: WertDatum, AbVersion: Version54},
		{Name: "darstellungsprioritaet", Art: WertGanzzahl, NichtExportieren: true},
		{Name: "position", Art: WertGeometrie},
		{Name: "flaechenschluss", Art: WertBoolesch},
		{Name: "refMassnahme", Art: WertRelation, RelationTyp: "XP_ExterneReferenz"},
		{Name: "gehoertZuBereich", Art: WertVerweis},
	}
}

func mit(basis []AttributeDescriptor, extra ...AttributeDescriptor) []AttributeDescriptor {
	return append(basis, extra...)
}

func planEintrag(typName string, familie string, extra ...AttributeDescriptor) *Eintrag {
	return &Eintrag{
		TypName:        typName,
		Familie:        familie,
		IstPlan:        true,
		Geometrie:      GeomFlaeche,
		Attribute:      mit(planBasis(), append(extra, AttributeDescriptor{Name: "bereich", Art: WertRelation, RelationTyp: familie + "_Bereich"})...),
		VermeideExport: nil,
	}
}

func bereichEintrag(typName string, familie string, extra ...AttributeDescriptor) *Eintrag {
	return &Eintrag{
		TypName:        typName,
		Familie:        familie,
		IstBereich:     true,
		Geometrie:      GeomFlaeche,
		Attribute:      mit(bereichBasis(), extra...),
		VermeideExport: []string{"gehoertZuPlan"},
	}
}

func katalogEintraege() []*Eintrag {
	eintraege := []*Eintrag{
		// 规划与分区，五个规划族
		planEintrag("BP_Plan", "BP",
			AttributeDescriptor{Name: "planart", Art: WertEnum, Enum: enumBPPlanart},
			AttributeDescriptor{Name: "aufstellungsbeschlussDatum", Art: WertDatum},
			AttributeDescriptor{Name: "satzungsbeschlussDatum", Art: WertDatum},
			AttributeDescriptor{Name: "inkrafttretensDatum", Art: WertDatum},
			AttributeDescriptor{Name: "staedtebaulicherVertrag", Art: WertBoolesch},
			AttributeDescriptor{Name: "erschliessungsVertrag", Art: WertBoolesch},
			AttributeDescriptor{Name: "durchfuehrungsVertrag", Art: WertBoolesch},
			AttributeDescriptor{Name: "gruenordnungsplan", Art: WertBoolesch},
			AttributeDescriptor{Name: "versionBauNVO", Art: WertText, BisVersion: Version52},
		),
		planEintrag("FP_Plan", "FP",
			AttributeDescriptor{Name: "planart", Art: WertEnum, Enum: enumFPPlanart},
			AttributeDescriptor{Name: "aufstellungsbeschlussDatum", Art: WertDatum},
			AttributeDescriptor{Name: "entwurfsbeschlussDatum", Art: WertDatum},
			AttributeDescriptor{Name: "wirksamkeitsDatum", Art: WertDatum},
		),
		planEintrag("LP_Plan", "LP",
			AttributeDescriptor{Name: "rechtlicheAussenwirkung", Art: WertBoolesch},
			AttributeDescriptor{Name: "aufstellungsbeschlussDatum", Art: WertDatum},
		),
		planEintrag("RP_Plan", "RP",
			AttributeDescriptor{Name: "planungsregion", Art: WertText},
			AttributeDescriptor{Name: "aufstellungsbeschlussDatum", Art: WertDatum},
		),
		planEintrag("SO_Plan", "SO",
			AttributeDescriptor{Name: "planart", Art: WertText},
		),
		bereichEintrag("BP_Bereich", "BP",
			AttributeDescriptor{Name: "versionBauNVODatum", Art: WertDatum},
			AttributeDescriptor{Name: "versionBauGBDatum", Art: WertDatum},
		),
		bereichEintrag("FP_Bereich", "FP"),
		bereichEintrag("LP_Bereich", "LP"),
		bereichEintrag("RP_Bereich", "RP"),
		bereichEintrag("SO_Bereich", "SO"),

		// 展示对象
		{
			TypName:   "XP_PPO",
			Familie:   "XP",
			Geometrie: GeomPunkt,
			Attribute: []AttributeDescriptor{
				{Name: "stylesheetId", Art: WertText},
				{Name: "drehwinkel", Art: WertDezimal},
				{Name: "skalierung", Art: WertDezimal},
				{Name: "symbolPfad", Art: WertText},
				{Name: "position", Art: WertGeometrie},
				{Name: "dientZurDarstellungVon", Art: WertVerweis},
			},
		},
		{
			TypName:   "XP_PTO",
			Familie:   "XP",
			Geometrie: GeomPunkt,
			Attribute: []AttributeDescriptor{
				{Name: "stylesheetId", Art: WertText},
				{Name: "schriftinhalt", Art: WertText},
				{Name: "drehwinkel", Art: WertDezimal},
				{Name: "skalierung", Art: WertDezimal},
				{Name: "position", Art: WertGeometrie},
				{Name: "dientZurDarstellungVon", Art: WertVerweis},
			},
		},

		// 外部引用，文档与配准扫描件合并为一张表，art为判别字段
		{
			TypName: "XP_ExterneReferenz",
			Familie: "XP",
			Attribute: []AttributeDescriptor{
				{Name: "art", Art: WertText},
				{Name: "referenzName", Art: WertText},
				{Name: "referenzURL", Art: WertText},
				{Name: "referenzMimeType", Art: WertText},
				{Name: "beschreibung", Art: WertText},
				{Name: "datum", Art: WertDatum},
				{Name: "datei", Art: WertBinaer},
			},
		},
		{
			TypName: "XP_SpezExterneReferenz",
			Familie: "XP",
			Attribute: []AttributeDescriptor{
				{Name: "art", Art: WertText},
				{Name: "typ", Art: WertEnum, Enum: enumRefTyp},
				{Name: "referenzName", Art: WertText},
				{Name: "referenzURL", Art: WertText},
				{Name: "referenzMimeType", Art: WertText},
				{Name: "beschreibung", Art: WertText},
				{Name: "datum", Art: WertDatum},
				{Name: "datei", Art: WertBinaer},
			},
		},
		{
			TypName: "XP_Gemeinde",
			Familie: "XP",
			Attribute: []AttributeDescriptor{
				{Name: "ags", Art: WertText},
				{Name: "rs", Art: WertText, AbVersion: Version51},
				{Name: "gemeindeName", Art: WertText},
				{Name: "ortsteilName", Art: WertText},
			},
		},

		// 复杂用途指定的卫星行：一个枚举值加自由文本，兄弟间顺序有意义
		{
			TypName: "XP_KomplexeZweckbestGruen",
			Familie: "XP",
			Attribute: []AttributeDescriptor{
				{Name: "allgemein", Art: WertEnum, Enum: enumZweckGruen},
				{Name: "textlicheErgaenzung", Art: WertText},
				{Name: "aufschrift", Art: WertText},
			},
		},
		{
			TypName: "XP_KomplexeZweckbestGemeinbedarf",
			Familie: "XP",
			Attribute: []AttributeDescriptor{
				{Name: "allgemein", Art: WertEnum, Enum: enumZweckGemeinbedarf},
				{Name: "textlicheErgaenzung", Art: WertText},
				{Name: "aufschrift", Art: WertText},
			},
		},

		// BP 规划内容
		{
			TypName:   "BP_BaugebietsTeilFlaeche",
			Familie:   "BP",
			Geometrie: GeomFlaeche,
			Attribute: mit(objektBasis(enumBPRechtscharakter),
				AttributeDescriptor{Name: "allgArtDerBaulNutzung", Art: WertEnum, Enum: enumAllgArtBaulNutzung},
				AttributeDescriptor{Name: "besondereArtDerBaulNutzung", Art: WertEnum, Enum: enumBesArtBaulNutzung},
				AttributeDescriptor{Name: "GFZ", Art: WertDezimal},
				AttributeDescriptor{Name: "GRZ", Art: WertDezimal},
				AttributeDescriptor{Name: "Z", Art: WertGanzzahl},
				AttributeDescriptor{Name: "bauweise", Art: WertEnum, Enum: enumBauweise},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},
		{
			TypName:   "BP_GruenFlaeche",
			Familie:   "BP",
			Geometrie: GeomFlaeche,
			Attribute: mit(objektBasis(enumBPRechtscharakter),
				AttributeDescriptor{Name: "zweckbestimmung", Art: WertEnumListe, Enum: enumZweckGruen, BisVersion: Version54},
				AttributeDescriptor{Name: "komplexeZweckbestimmung", Art: WertRelation, RelationTyp: "XP_KomplexeZweckbestGruen", AbVersion: Version60},
				AttributeDescriptor{Name: "nutzungsform", Art: WertEnum, Enum: enumNutzungsform},
			),
			VermeideExport: []string{"gehoertZuBereich"},
			// zweckbestimmung 在6.0由标量枚举列表改为带排序的关系行
			Versionen: []VersionsAufloesung{
				{
					Logisch:  "zweckbestimmung",
					Skalar:   "zweckbestimmung",
					Relation: "komplexeZweckbestimmung",
					Form: func(v Version) Darstellung {
						if v >= Version60 {
							return DarstellungRelation
						}
						return DarstellungSkalar
					},
				},
			},
		},
		{
			TypName:   "BP_GemeinbedarfsFlaeche",
			Familie:   "BP",
			Geometrie: GeomFlaeche,
			Attribute: mit(objektBasis(enumBPRechtscharakter),
				AttributeDescriptor{Name: "zweckbestimmung", Art: WertEnumListe, Enum: enumZweckGemeinbedarf},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},
		{
			TypName:                       "BP_Wegerecht",
			Familie:                       "BP",
			Geometrie:                     GeomLinie | GeomFlaeche,
			ErzwingeFlaechenschlussFalsch: true,
			Attribute: mit(objektBasis(enumBPRechtscharakter),
				AttributeDescriptor{Name: "typ", Art: WertEnumListe, Enum: enumWegerechtTyp},
				AttributeDescriptor{Name: "breite", Art: WertDezimal},
				AttributeDescriptor{Name: "zugunstenVon", Art: WertText},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},
		{
			TypName:   "BP_StrassenVerkehrsFlaeche",
			Familie:   "BP",
			Geometrie: GeomFlaeche,
			Attribute: mit(objektBasis(enumBPRechtscharakter),
				AttributeDescriptor{Name: "nutzungsform", Art: WertEnum, Enum: enumNutzungsform},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},
		{
			TypName:                       "BP_AnpflanzungBindungErhaltung",
			Familie:                       "BP",
			Geometrie:                     GeomGemischt,
			ErzwingeFlaechenschlussFalsch: true,
			Attribute: mit(objektBasis(enumBPRechtscharakter),
				AttributeDescriptor{Name: "gegenstand", Art: WertEnumListe, Enum: enumABEGegenstand},
				AttributeDescriptor{Name: "massnahme", Art: WertEnum, Enum: enumABEMassnahme},
				AttributeDescriptor{Name: "kronendurchmesser", Art: WertDezimal},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},

		// FP 规划内容
		{
			TypName:   "FP_Gemeinbedarf",
			Familie:   "FP",
			Geometrie: GeomGemischt,
			Attribute: mit(objektBasis(enumXPRechtscharakter),
				AttributeDescriptor{Name: "zweckbestimmung", Art: WertEnumListe, Enum: enumZweckGemeinbedarf},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},
		{
			TypName:   "FP_GruenFlaeche",
			Familie:   "FP",
			Geometrie: GeomFlaeche,
			Attribute: mit(objektBasis(enumXPRechtscharakter),
				AttributeDescriptor{Name: "zweckbestimmung", Art: WertEnumListe, Enum: enumZweckGruen},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},

		// LP / RP / SO 规划内容
		{
			TypName:   "LP_SchutzPflegeEntwicklungsFlaeche",
			Familie:   "LP",
			Geometrie: GeomFlaeche,
			Attribute: mit(objektBasis(enumXPRechtscharakter),
				AttributeDescriptor{Name: "ziel", Art: WertText},
				AttributeDescriptor{Name: "massnahmeText", Art: WertTextListe},
				AttributeDescriptor{Name: "istAusgleich", Art: WertBoolesch},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},
		{
			TypName:   "RP_Freiraum",
			Familie:   "RP",
			Geometrie: GeomFlaeche,
			Attribute: mit(objektBasis(enumXPRechtscharakter),
				AttributeDescriptor{Name: "zweckbestimmung", Art: WertTextListe},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},
		{
			TypName:   "SO_Denkmalschutzrecht",
			Familie:   "SO",
			Geometrie: GeomGemischt,
			Attribute: mit(objektBasis(enumXPRechtscharakter),
				AttributeDescriptor{Name: "artDerFestlegung", Art: WertEnum, Enum: enumDenkmalArt},
				AttributeDescriptor{Name: "weltkulturerbe", Art: WertBoolesch},
				AttributeDescriptor{Name: "name", Art: WertText},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},
		{
			TypName:   "SO_Strassenverkehrsrecht",
			Familie:   "SO",
			Geometrie: GeomGemischt,
			Attribute: mit(objektBasis(enumXPRechtscharakter),
				AttributeDescriptor{Name: "artDerFestlegung", Art: WertEnum, Enum: enumStrassenArt},
				AttributeDescriptor{Name: "nummer", Art: WertText},
			),
			VermeideExport: []string{"gehoertZuBereich"},
		},
	}

	return eintraege
}
